package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// ShareMismatch is a stored transaction whose shares do not add up to its amount.
type ShareMismatch struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	ShareSum      decimal.Decimal `json:"share_sum"`
}

// IntegrityRepository runs whole-table consistency checks.
type IntegrityRepository struct {
	queries *generated.Queries
}

// NewIntegrityRepository creates a new IntegrityRepository.
func NewIntegrityRepository(pool *pgxpool.Pool) *IntegrityRepository {
	return &IntegrityRepository{queries: generated.New(pool)}
}

// CheckConsistency lists every transaction that breaks share conservation.
func (r *IntegrityRepository) CheckConsistency(ctx context.Context) ([]ShareMismatch, error) {
	rows, err := r.queries.ListShareMismatches(ctx)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	mismatches := make([]ShareMismatch, 0, len(rows))
	for _, row := range rows {
		mismatches = append(mismatches, ShareMismatch{
			TransactionID: row.ID,
			Amount:        numericToDecimal(row.Amount),
			ShareSum:      numericToDecimal(row.ShareSum),
		})
	}

	return mismatches, nil
}
