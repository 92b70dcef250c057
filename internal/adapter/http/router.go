package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/adapter/http/handler"
	"github.com/iho/splitledger/internal/adapter/http/middleware"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. Optional fields may be nil.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	SettlementHandler  *handler.SettlementHandler
	BalanceHandler     *handler.BalanceHandler
	GroupHandler       *handler.GroupHandler
	HealthHandler      *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetrics(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewIdentity(cfg.JWTManager, cfg.Metrics).Wrap)
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, 0).Wrap)
		}

		r.Post("/splits/preview", cfg.TransactionHandler.Preview)
		r.Post("/receipts/items", cfg.TransactionHandler.ReceiptItems)

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Put("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
			r.Get("/{id}/history", cfg.TransactionHandler.History)
			r.Post("/{id}/participants/{userID}/paid", cfg.SettlementHandler.MarkPaid)
			r.Post("/{id}/settle", cfg.SettlementHandler.Settle)
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.CreateUser)
			r.Get("/{id}", cfg.GroupHandler.GetUser)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListForUser)
			r.Get("/{id}/balances", cfg.BalanceHandler.Get)
			r.Post("/{id}/balances/reconcile", cfg.BalanceHandler.Reconcile)
		})

		// Groups
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.CreateGroup)
			r.Get("/{id}", cfg.GroupHandler.GetGroup)
			r.Post("/{id}/members", cfg.GroupHandler.AddMember)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListForGroup)
			r.Get("/{id}/settle-up", cfg.BalanceHandler.SettleUp)
		})
	})

	return r
}
