package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// TransactionStore persists shared transactions. Every mutating call is
// atomic: when it returns an error no part of the change is visible.
// Implementations return errors wrapping the domain kind sentinels.
type TransactionStore interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	// Update replaces t wholesale if the stored version equals expectedVersion.
	Update(ctx context.Context, t *domain.Transaction, expectedVersion int64) (*domain.Transaction, error)
	Delete(ctx context.Context, id string, expectedVersion int64) error
	// ListForUser returns transactions where userID is payer or participant,
	// newest first. A zero limit returns all of them.
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error)
	// Settle marks cmd.UserIDs paid if the stored version equals
	// cmd.ExpectedVersion, bumping the version.
	Settle(ctx context.Context, cmd domain.SettleCommand) (*domain.Transaction, error)
}

// GroupRepository defines data access for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	Get(ctx context.Context, id string) (*domain.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines read access for audit logs. Rows are written by
// the store inside its own transactions.
type AuditRepository interface {
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes all keys in one round trip.
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}

// BalanceInvalidator drops cached balance summaries.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...string)
}
