package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/iho/splitledger/internal/domain"
)

// storeError classifies a failure returned by the transaction store. Errors
// that already carry a kind pass through; deadlines and cancellation become
// timeouts; anything else means the store could not be reached or did not
// acknowledge the write.
func storeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != domain.KindInternal {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

func requireActor(ctx context.Context) (string, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return "", domain.ErrActorRequired
	}
	return actor, nil
}
