package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	queries *generated.Queries
}

// NewUserRepository creates a new user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{queries: generated.New(pool)}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.queries.CreateUser(ctx, generated.CreateUserParams{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: timeToPgTimestamptz(user.CreatedAt),
	})
	if err != nil {
		err = mapError(ctx, err)
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, user.ID)
		}
		return err
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	row, err := r.queries.GetUserByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return &domain.User{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}
