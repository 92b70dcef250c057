package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// SettlementUseCase records payments against transaction shares. It never
// retries store calls and never touches balance caches; callers invalidate
// the users in SettlementResult.Affected after a successful change.
type SettlementUseCase struct {
	store   TransactionStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewSettlementUseCase creates a new SettlementUseCase. A non-positive
// timeout selects DefaultSettlementTimeout.
func NewSettlementUseCase(store TransactionStore, timeout time.Duration, metrics *metrics.Metrics, logger zerolog.Logger) *SettlementUseCase {
	if timeout <= 0 {
		timeout = DefaultSettlementTimeout
	}
	return &SettlementUseCase{
		store:   store,
		metrics: metrics,
		logger:  logger.With().Str("component", "settlement").Logger(),
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// MarkPaidInput represents a change to one participant's paid flag.
// ExpectedVersion zero skips the caller-side version check; the store still
// guards against a concurrent write between read and update.
type MarkPaidInput struct {
	PaymentMethodRef *string
	TransactionID    string
	UserID           string
	ExpectedVersion  int64
	Paid             bool
}

// SettleInput asks for every unpaid share of a transaction to be marked paid.
type SettleInput struct {
	TransactionID   string
	ExpectedVersion int64
}

// SettlementResult is the transaction after the operation. Changed is false
// for idempotent no-ops, in which case Affected is empty.
type SettlementResult struct {
	Transaction *domain.Transaction
	Affected    []string
	Changed     bool
}

// MarkParticipantPaid marks one participant's share paid. Only the payer or
// the participant may do so. Marking an already paid share is a no-op.
func (uc *SettlementUseCase) MarkParticipantPaid(ctx context.Context, input MarkPaidInput) (*SettlementResult, error) {
	start := time.Now()
	result, err := uc.markParticipantPaid(ctx, input)
	uc.observe("mark_paid", start, result, err)
	return result, err
}

func (uc *SettlementUseCase) markParticipantPaid(ctx context.Context, input MarkPaidInput) (*SettlementResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	current, err := uc.store.Get(ctx, input.TransactionID)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	participant, ok := current.Participant(input.UserID)
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	if actor != current.PayerID && actor != input.UserID {
		return nil, domain.ErrNotParty
	}

	if participant.Paid == input.Paid {
		return &SettlementResult{Transaction: current}, nil
	}
	if !input.Paid {
		return nil, domain.ErrReopenNotSupported
	}

	return uc.settle(ctx, current, actor, []string{input.UserID}, input.ExpectedVersion, input.PaymentMethodRef)
}

// SettleWholeTransaction marks every unpaid share paid in one atomic step.
// Only the payer may do so. A fully paid transaction is returned unchanged.
func (uc *SettlementUseCase) SettleWholeTransaction(ctx context.Context, input SettleInput) (*SettlementResult, error) {
	start := time.Now()
	result, err := uc.settleWholeTransaction(ctx, input)
	uc.observe("settle", start, result, err)
	return result, err
}

func (uc *SettlementUseCase) settleWholeTransaction(ctx context.Context, input SettleInput) (*SettlementResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	current, err := uc.store.Get(ctx, input.TransactionID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if actor != current.PayerID {
		return nil, domain.ErrNotPayer
	}

	unpaid := current.UnpaidUserIDs()
	if len(unpaid) == 0 {
		return &SettlementResult{Transaction: current}, nil
	}

	return uc.settle(ctx, current, actor, unpaid, input.ExpectedVersion, nil)
}

func (uc *SettlementUseCase) settle(
	ctx context.Context,
	current *domain.Transaction,
	actor string,
	userIDs []string,
	expectedVersion int64,
	paymentMethodRef *string,
) (*SettlementResult, error) {
	if expectedVersion != 0 && expectedVersion != current.Version {
		return nil, domain.ErrVersionMismatch
	}

	updated, err := uc.store.Settle(ctx, domain.SettleCommand{
		At:               uc.now(),
		PaymentMethodRef: paymentMethodRef,
		TransactionID:    current.ID,
		ActorID:          actor,
		UserIDs:          userIDs,
		ExpectedVersion:  current.Version,
	})
	if err != nil {
		return nil, storeError(ctx, err)
	}

	affected := append([]string{updated.PayerID}, userIDs...)

	uc.logger.Info().
		Str("transaction_id", updated.ID).
		Strs("user_ids", userIDs).
		Str("actor_id", actor).
		Str("status", string(updated.Status())).
		Int64("version", updated.Version).
		Msg("shares marked paid")

	if uc.metrics != nil {
		uc.metrics.ParticipantsPaid.Add(float64(len(userIDs)))
	}

	return &SettlementResult{Transaction: updated, Affected: affected, Changed: true}, nil
}

func (uc *SettlementUseCase) observe(operation string, start time.Time, result *SettlementResult, err error) {
	if err != nil {
		uc.logger.Debug().Err(err).Str("operation", operation).Msg("settlement rejected")
	}
	if uc.metrics == nil {
		return
	}

	outcome := "noop"
	switch {
	case err != nil:
		outcome = string(domain.KindOf(err))
	case result.Changed:
		outcome = "changed"
	}
	uc.metrics.Settlements.WithLabelValues(operation, outcome).Inc()
	uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
}
