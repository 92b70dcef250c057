package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/calculator"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// TransactionUseCase handles the lifecycle of shared transactions.
type TransactionUseCase struct {
	store    TransactionStore
	groups   GroupRepository
	audit    AuditRepository
	balances BalanceInvalidator
	idGen    IDGenerator
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase. audit, balances and
// metrics may be nil.
func NewTransactionUseCase(
	store TransactionStore,
	groups GroupRepository,
	audit AuditRepository,
	balances BalanceInvalidator,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		store:    store,
		groups:   groups,
		audit:    audit,
		balances: balances,
		idGen:    idGen,
		metrics:  metrics,
		logger:   logger.With().Str("component", "transactions").Logger(),
		timeout:  DefaultStoreTimeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SplitInput carries everything needed to compute the shares of a transaction.
type SplitInput struct {
	GroupID        *string
	CustomAmounts  map[string]decimal.Decimal
	Percentages    map[string]decimal.Decimal
	Description    string
	PayerID        string
	Method         domain.SplitMethod
	Amount         decimal.Decimal
	ParticipantIDs []string
	Items          []domain.Item
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	SplitInput
}

// UpdateTransactionInput represents a wholesale edit of a transaction.
type UpdateTransactionInput struct {
	SplitInput
	ID              string
	ExpectedVersion int64
}

// ReceiptItems is the result of converting a receipt into split items.
type ReceiptItems struct {
	Items         []domain.Item
	TotalMismatch decimal.Decimal
	Mismatched    bool
}

// PreviewSplit computes shares without persisting anything. Exact residuals
// are attributed to the payer the same way CreateTransaction does.
func (uc *TransactionUseCase) PreviewSplit(input SplitInput) (*calculator.Allocation, error) {
	alloc, err := calculator.ComputeSplit(calculator.SplitSpec{
		Total:          input.Amount,
		CustomAmounts:  input.CustomAmounts,
		Percentages:    input.Percentages,
		PayerID:        input.PayerID,
		Method:         input.Method,
		ParticipantIDs: input.ParticipantIDs,
		Items:          input.Items,
	})
	if uc.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(domain.KindOf(err))
		}
		uc.metrics.SplitsComputed.WithLabelValues(string(input.Method), outcome).Inc()
	}
	if err != nil {
		return nil, err
	}

	if input.Method == domain.SplitExact && input.PayerID != "" {
		alloc.AssignResidualTo(input.PayerID)
	}
	return alloc, nil
}

// CreateTransaction computes the split and stores a new transaction. The
// payer's own share is recorded as already paid.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	t, err := uc.build(input.SplitInput, nil, now)
	if err != nil {
		return nil, err
	}
	t.ID = uc.idGen.Generate()
	t.CreatedAt = now

	if !t.Involves(actor) {
		return nil, domain.ErrNotInvolved
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.checkGroup(ctx, t); err != nil {
		return nil, err
	}

	created, err := uc.store.Create(ctx, t)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	uc.invalidate(ctx, created.Parties())
	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
		uc.metrics.TransactionAmount.Observe(created.Amount.InexactFloat64())
	}
	uc.logger.Info().
		Str("transaction_id", created.ID).
		Str("payer_id", created.PayerID).
		Str("method", string(created.SplitMethod)).
		Str("amount", created.Amount.StringFixed(domain.MoneyScale)).
		Msg("transaction created")

	return created, nil
}

// UpdateTransaction replaces a transaction's amount, payer, split and items.
// Paid flags survive only for participants whose share did not change.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	current, err := uc.store.Get(ctx, input.ID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if current.PayerID != actor {
		return nil, domain.ErrNotPayer
	}
	expected := input.ExpectedVersion
	if expected == 0 {
		expected = current.Version
	}
	if expected != current.Version {
		return nil, domain.ErrVersionMismatch
	}

	next, err := uc.build(input.SplitInput, current, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.checkGroup(ctx, next); err != nil {
		return nil, err
	}

	updated, err := uc.store.Update(ctx, next, expected)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	uc.invalidate(ctx, append(current.Parties(), updated.Parties()...))
	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
	}
	uc.logger.Info().
		Str("transaction_id", updated.ID).
		Int64("version", updated.Version).
		Msg("transaction updated")

	return updated, nil
}

// DeleteTransaction removes a transaction from all future balance computations.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string, expectedVersion int64) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	current, err := uc.store.Get(ctx, id)
	if err != nil {
		return storeError(ctx, err)
	}
	if current.PayerID != actor {
		return domain.ErrNotPayer
	}
	if expectedVersion == 0 {
		expectedVersion = current.Version
	}
	if expectedVersion != current.Version {
		return domain.ErrVersionMismatch
	}

	if err := uc.store.Delete(ctx, id, expectedVersion); err != nil {
		return storeError(ctx, err)
	}

	uc.invalidate(ctx, current.Parties())
	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}
	uc.logger.Info().Str("transaction_id", id).Msg("transaction deleted")

	return nil
}

// GetTransaction returns a transaction the caller is a party to.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	t, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if !t.Involves(actor) {
		return nil, domain.ErrNotInvolved
	}
	return t, nil
}

// ListForUser returns the caller's own transactions.
func (uc *TransactionUseCase) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if actor != userID {
		return nil, domain.ErrNotSelf
	}
	limit, offset = domain.ValidatePagination(limit, offset)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	txs, err := uc.store.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	return txs, nil
}

// ListForGroup returns a group's transactions to one of its members.
func (uc *TransactionUseCase) ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	limit, offset = domain.ValidatePagination(limit, offset)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	group, err := uc.groups.Get(ctx, groupID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if !group.HasMember(actor) {
		return nil, domain.ErrNotMember
	}

	txs, err := uc.store.ListForGroup(ctx, groupID, limit, offset)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	return txs, nil
}

// History returns the audit trail of a transaction the caller is a party to.
func (uc *TransactionUseCase) History(ctx context.Context, id string) ([]*domain.AuditLog, error) {
	if _, err := uc.GetTransaction(ctx, id); err != nil {
		return nil, err
	}
	if uc.audit == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	logs, err := uc.audit.GetByResourceID(ctx, domain.AggregateTypeTransaction, id)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	return logs, nil
}

// ItemsFromReceipt converts receipt extraction output into unassigned items.
// A receipt total that disagrees with the item sum is reported, not rejected.
func (uc *TransactionUseCase) ItemsFromReceipt(receipt *domain.Receipt) (*ReceiptItems, error) {
	items, err := receipt.ToItems()
	if err != nil {
		return nil, err
	}

	diff, mismatched := receipt.TotalMismatch(items)
	if mismatched {
		uc.logger.Warn().
			Str("receipt", receipt.String()).
			Str("difference", diff.StringFixed(domain.MoneyScale)).
			Msg("receipt total does not match item sum")
	}

	return &ReceiptItems{Items: items, TotalMismatch: diff, Mismatched: mismatched}, nil
}

// build turns a split request into a validated transaction. When prev is set
// the result keeps prev's identity and carries over paid flags whose share
// is unchanged.
func (uc *TransactionUseCase) build(input SplitInput, prev *domain.Transaction, now time.Time) (*domain.Transaction, error) {
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}
	if input.PayerID == "" {
		return nil, domain.ErrPayerRequired
	}

	alloc, err := uc.PreviewSplit(input)
	if err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		Description: input.Description,
		PayerID:     input.PayerID,
		GroupID:     input.GroupID,
		SplitMethod: input.Method,
		Amount:      alloc.Total,
		UpdatedAt:   now,
	}
	if input.Method == domain.SplitItemized {
		t.Items = cloneItems(input.Items)
	}
	if prev != nil {
		t.ID = prev.ID
		t.CreatedAt = prev.CreatedAt
		t.Version = prev.Version
	}

	t.Participants = make([]domain.Participant, 0, len(alloc.Shares))
	for _, share := range alloc.Shares {
		p := domain.Participant{UserID: share.UserID, ShareAmount: share.Amount}
		if prev != nil {
			if old, ok := prev.Participant(share.UserID); ok && old.Paid && old.ShareAmount.Equal(share.Amount) {
				p.Paid, p.PaidAt, p.PaymentMethodRef = true, old.PaidAt, old.PaymentMethodRef
			}
		}
		if share.UserID == input.PayerID && !p.Paid {
			paidAt := now
			p.Paid, p.PaidAt = true, &paidAt
		}
		t.Participants = append(t.Participants, p)
	}
	if prev != nil && prev.SettledAt != nil {
		settledAt := *prev.SettledAt
		t.SettledAt = &settledAt
	}
	t.ReconcileSettledAt(now)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *TransactionUseCase) checkGroup(ctx context.Context, t *domain.Transaction) error {
	if t.GroupID == nil {
		return nil
	}
	group, err := uc.groups.Get(ctx, *t.GroupID)
	if err != nil {
		return storeError(ctx, err)
	}
	for _, id := range t.Parties() {
		if !group.HasMember(id) {
			return fmt.Errorf("%w: %s", domain.ErrParticipantNotGroupUser, id)
		}
	}
	return nil
}

func (uc *TransactionUseCase) invalidate(ctx context.Context, userIDs []string) {
	if uc.balances != nil {
		uc.balances.Invalidate(ctx, userIDs...)
	}
}

func cloneItems(items []domain.Item) []domain.Item {
	if items == nil {
		return nil
	}
	out := make([]domain.Item, len(items))
	for i, item := range items {
		item.AssignedUserIDs = append([]string(nil), item.AssignedUserIDs...)
		out[i] = item
	}
	return out
}
