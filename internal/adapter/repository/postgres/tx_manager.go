package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// pgxPool is the subset of *pgxpool.Pool the repositories use.
type pgxPool interface {
	generated.DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager runs store operations inside SQL transactions.
type TxManager struct {
	pool pgxPool
}

func newTxManagerWithPool(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (*Tx, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// WithTx runs fn in a transaction, committing if fn succeeds and rolling
// back otherwise.
func (m *TxManager) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		// Rollback with a fresh context so a cancelled caller still releases the connection.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Tx wraps a pgx transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx returns the underlying pgx.Tx.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}

// Queries returns generated queries bound to the transaction.
func (t *Tx) Queries() *generated.Queries {
	return generated.New(t.tx)
}
