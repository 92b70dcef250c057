package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// SQLSTATE codes the store distinguishes.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrCheckViolation       = "23514"
)

// Retrier re-runs store transactions that lost a deadlock or
// serialization race, with exponential backoff.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewRetrier creates a new PostgreSQL retrier with default settings.
func NewRetrier() *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          log.Logger,
	}
}

// WithMetrics counts retries on m.
func (r *Retrier) WithMetrics(m *metrics.Metrics) *Retrier {
	r.metrics = m
	return r
}

// Retry runs operation and re-runs it after a deadlock or serialization
// failure, at most maxRetries times. Other errors return immediately.
func (r *Retrier) Retry(ctx context.Context, name string, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx)

	retry := 0
	notify := func(err error, wait time.Duration) {
		retry++
		if r.metrics != nil {
			r.metrics.StoreRetries.WithLabelValues(name).Inc()
		}
		r.logger.Warn().
			Err(err).
			Str("operation", name).
			Int("retry", retry).
			Dur("wait", wait).
			Msg("store transaction lost a race, retrying")
	}

	return backoff.RetryNotify(func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, notify)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrDeadlock || pgErr.Code == pgErrSerializationFailure
}
