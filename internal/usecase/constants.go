package usecase

import "time"

const (
	// DefaultSettlementTimeout bounds one settlement write, including the
	// read that precedes it.
	DefaultSettlementTimeout = 5 * time.Second

	// DefaultStoreTimeout bounds non-settlement store calls.
	DefaultStoreTimeout = 10 * time.Second

	// DefaultBalanceCacheTTL is how long a computed BalanceSummary is served from cache.
	DefaultBalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	balanceCachePrefix = "balance:"
)

// BalanceCacheKey returns the cache key of userID's summary.
func BalanceCacheKey(userID string) string {
	return balanceCachePrefix + userID
}
