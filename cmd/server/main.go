package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/splitledger/internal/adapter/http"
	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/adapter/storeclient"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/infrastructure/config"
	"github.com/iho/splitledger/internal/infrastructure/eventpublisher"
	"github.com/iho/splitledger/internal/infrastructure/logger"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/infrastructure/redis"
	"github.com/iho/splitledger/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = lg
	zerolog.DefaultContextLogger = &lg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, lg zerolog.Logger) error {
	m := metrics.New()

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	lg.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	lg.Info().Msg("connected to redis")

	// Initialize repositories
	idGen := postgresRepo.NewULIDGenerator()
	store, err := newTransactionStore(cfg, pool, idGen, m, lg)
	if err != nil {
		return err
	}
	groupRepo := postgresRepo.NewGroupRepository(pool, idGen)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	balanceUC := usecase.NewBalanceUseCase(store, groupRepo, cache, cfg.BalanceCacheTTL, m, lg)
	transactionUC := usecase.NewTransactionUseCase(store, groupRepo, auditRepo, balanceUC, idGen, m, lg)
	settlementUC := usecase.NewSettlementUseCase(store, cfg.SettlementTimeout, m, lg)
	groupUC := usecase.NewGroupUseCase(groupRepo, userRepo, idGen)

	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		SettlementHandler:  handler.NewSettlementHandler(settlementUC, balanceUC),
		BalanceHandler:     handler.NewBalanceHandler(balanceUC),
		GroupHandler:       handler.NewGroupHandler(groupUC),
		HealthHandler:      handler.NewHealthHandler(healthChecks(pool, redisClient)...),
		Logger:             lg,
		IdempotencyStore:   idempotencyStore,
	}
	if cfg.MetricsEnabled {
		routerCfg.Metrics = m
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, time.Hour)
	}
	if cfg.RateLimitRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
		routerCfg.RateLimiter = rl
		go cleanupLimiters(ctx, rl)
	}

	if cfg.StoreBackend == config.StoreBackendPostgres {
		if sink := newEventSink(cfg.EventPublisherMode, redisClient, cfg.EventStream, lg); sink != nil {
			publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
				OutboxRepo: postgresRepo.NewOutboxRepository(pool),
				Publisher:  sink,
				Metrics:    m,
				Logger:     &lg,
				Interval:   cfg.EventPollInterval,
				Retention:  cfg.EventRetention,
			})
			go func() {
				if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					lg.Error().Err(err).Msg("event publisher stopped")
				}
			}()
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           httpAdapter.NewRouter(routerCfg),
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("port", cfg.HTTPPort).Str("store", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	lg.Info().Msg("server stopped")
	return nil
}

// newTransactionStore picks the configured transaction store backend.
func newTransactionStore(cfg *config.Config, pool *pgxpool.Pool, idGen usecase.IDGenerator, m *metrics.Metrics, lg zerolog.Logger) (usecase.TransactionStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendRemote:
		client, err := storeclient.New(storeclient.Config{
			BaseURL: cfg.StoreURL,
			Metrics: m,
			Logger:  &lg,
			Timeout: cfg.StoreTimeout,
		})
		if err != nil {
			return nil, err
		}
		lg.Info().Str("url", cfg.StoreURL).Msg("using remote transaction store")
		return client, nil
	case config.StoreBackendPostgres:
		if pool == nil {
			return nil, errors.New("postgres store requires a connection pool")
		}
		retrier := postgresRepo.NewRetrier().WithMetrics(m)
		return postgresRepo.NewTransactionRepository(pool, retrier, idGen), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// newEventSink returns where outbox events go, or nil when relaying is off.
func newEventSink(mode string, client goredis.UniversalClient, stream string, lg zerolog.Logger) eventpublisher.Publisher {
	switch mode {
	case "redis":
		return redisRepo.NewStreamPublisher(client, stream)
	case "log":
		return eventpublisher.NewLogPublisher(&lg)
	default:
		return nil
	}
}

func healthChecks(pool *pgxpool.Pool, client goredis.UniversalClient) []handler.Check {
	var checks []handler.Check
	if pool != nil {
		checks = append(checks, handler.Check{Name: "postgres", Pinger: pool})
	}
	if client != nil {
		checks = append(checks, handler.Check{Name: "redis", Pinger: handler.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})})
	}
	return checks
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters()
		}
	}
}
