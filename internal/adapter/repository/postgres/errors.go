package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/splitledger/internal/domain"
)

// mapError translates driver failures into domain error kinds. Errors that
// already carry a kind are returned unchanged.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if domain.KindOf(err) != domain.KindInternal {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) || ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		case pgErrForeignKeyViolation, pgErrCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		}
		// The server answered; anything else is a bug, not an outage.
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}
