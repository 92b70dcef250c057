package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/adapter/repository/postgres"
	"github.com/iho/splitledger/internal/domain"
	infrapg "github.com/iho/splitledger/internal/infrastructure/postgres"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and migrates it. The test is skipped
// under -short or when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	migrationsPath := "internal/infrastructure/postgres/migrations"
	for _, candidate := range []string{"../../internal/infrastructure/postgres/migrations", "../../../internal/infrastructure/postgres/migrations"} {
		if _, err := os.Stat(migrationsPath); err == nil {
			break
		}
		migrationsPath = candidate
	}

	if err := infrapg.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := infrapg.NewPool(ctx, dbURL, 20, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)
	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE audit_logs, outbox_events, transaction_items,
			transaction_participants, transactions, group_members, groups, users CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Stack is the Postgres-backed use case graph used by integration tests.
type Stack struct {
	Store        *postgres.TransactionRepository
	Groups       *postgres.GroupRepository
	Users        *postgres.UserRepository
	Outbox       *postgres.OutboxRepository
	Audit        *postgres.AuditRepository
	Transactions *usecase.TransactionUseCase
	Settlements  *usecase.SettlementUseCase
	Balances     *usecase.BalanceUseCase
	Directory    *usecase.GroupUseCase
}

// NewStack wires use cases over the test database. cache may be nil.
func (db *TestDB) NewStack(cache usecase.Cache) *Stack {
	idGen := postgres.NewULIDGenerator()
	logger := zerolog.Nop()

	s := &Stack{
		Store:  postgres.NewTransactionRepository(db.Pool, postgres.NewRetrier(), idGen),
		Groups: postgres.NewGroupRepository(db.Pool, idGen),
		Users:  postgres.NewUserRepository(db.Pool),
		Outbox: postgres.NewOutboxRepository(db.Pool),
		Audit:  postgres.NewAuditRepository(db.Pool),
	}
	s.Balances = usecase.NewBalanceUseCase(s.Store, s.Groups, cache, time.Minute, nil, logger)
	s.Transactions = usecase.NewTransactionUseCase(s.Store, s.Groups, s.Audit, s.Balances, idGen, nil, logger)
	s.Settlements = usecase.NewSettlementUseCase(s.Store, 5*time.Second, nil, logger)
	s.Directory = usecase.NewGroupUseCase(s.Groups, s.Users, idGen)
	return s
}

// CreateTestUser inserts a user with the given id.
func (db *TestDB) CreateTestUser(ctx context.Context, id string) *domain.User {
	db.t.Helper()

	user := &domain.User{ID: id, Name: id, CreatedAt: time.Now().UTC()}
	if err := postgres.NewUserRepository(db.Pool).Create(ctx, user); err != nil {
		db.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// As returns ctx carrying userID as the acting caller.
func As(ctx context.Context, userID string) context.Context {
	return domain.ContextWithActor(ctx, userID)
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
