package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/calculator"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// BalanceUseCase serves balance projections computed from the transaction set.
type BalanceUseCase struct {
	store   TransactionStore
	groups  GroupRepository
	cache   Cache
	metrics *metrics.Metrics
	logger  zerolog.Logger
	ttl     time.Duration
	timeout time.Duration
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil, in which
// case every lookup recomputes.
func NewBalanceUseCase(
	store TransactionStore,
	groups GroupRepository,
	cache Cache,
	ttl time.Duration,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *BalanceUseCase {
	if ttl <= 0 {
		ttl = DefaultBalanceCacheTTL
	}
	return &BalanceUseCase{
		store:   store,
		groups:  groups,
		cache:   cache,
		metrics: metrics,
		logger:  logger.With().Str("component", "balances").Logger(),
		ttl:     ttl,
		timeout: DefaultStoreTimeout,
	}
}

// GroupSettlement is a group's outstanding positions and the payments that
// would clear them.
type GroupSettlement struct {
	GroupID   string                    `json:"group_id"`
	Positions []domain.MemberPosition   `json:"positions"`
	Payments  []domain.SuggestedPayment `json:"payments"`
}

// GetBalances returns the caller's balance summary.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	if err := uc.authorize(ctx, userID); err != nil {
		return nil, err
	}

	if summary, ok := uc.cached(ctx, userID); ok {
		return summary, nil
	}

	summary, err := uc.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.remember(ctx, summary)
	return summary, nil
}

// Invalidate drops the cached summaries of userIDs. Failures are logged.
func (uc *BalanceUseCase) Invalidate(ctx context.Context, userIDs ...string) {
	if uc.cache == nil || len(userIDs) == 0 {
		return
	}

	seen := make(map[string]bool, len(userIDs))
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, BalanceCacheKey(id))
	}

	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.logger.Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate balances")
	}
}

// Reconcile compares freshly computed balances with externally supplied
// per-counterparty amounts and reports every disagreement above a cent.
func (uc *BalanceUseCase) Reconcile(ctx context.Context, userID string, external map[string]decimal.Decimal) ([]domain.IntegrityWarning, error) {
	if err := uc.authorize(ctx, userID); err != nil {
		return nil, err
	}

	summary, err := uc.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	warnings := calculator.CompareBalances(summary.PerCounterparty, external)
	for _, w := range warnings {
		uc.logger.Warn().
			Str("user_id", userID).
			Str("counterparty", w.Counterparty).
			Str("computed", w.Computed.StringFixed(domain.MoneyScale)).
			Str("external", w.External.StringFixed(domain.MoneyScale)).
			Msg("balance integrity warning")
	}
	if uc.metrics != nil && len(warnings) > 0 {
		uc.metrics.IntegrityWarnings.Add(float64(len(warnings)))
	}

	return warnings, nil
}

// GroupSettleUp nets the outstanding shares of a group's transactions and
// suggests payments that clear them.
func (uc *BalanceUseCase) GroupSettleUp(ctx context.Context, groupID string) (*GroupSettlement, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	group, err := uc.groups.Get(ctx, groupID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	if !group.HasMember(actor) {
		return nil, domain.ErrNotMember
	}

	txs, err := uc.store.ListForGroup(ctx, groupID, 0, 0)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	positions := calculator.GroupPositions(txs, group.Members)
	return &GroupSettlement{
		GroupID:   groupID,
		Positions: positions,
		Payments:  calculator.SuggestPayments(positions),
	}, nil
}

func (uc *BalanceUseCase) authorize(ctx context.Context, userID string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if actor != userID {
		return domain.ErrNotSelf
	}
	return nil
}

func (uc *BalanceUseCase) compute(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	txs, err := uc.store.ListForUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, storeError(ctx, err)
	}

	summary := calculator.ComputeBalances(txs, userID)
	return &summary, nil
}

func (uc *BalanceUseCase) cached(ctx context.Context, userID string) (*domain.BalanceSummary, bool) {
	if uc.cache == nil {
		return nil, false
	}

	data, err := uc.cache.Get(ctx, BalanceCacheKey(userID))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
		}
		uc.countCache("miss")
		return nil, false
	}

	var summary domain.BalanceSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		uc.logger.Warn().Err(err).Str("user_id", userID).Msg("discarding corrupt cached balance")
		uc.countCache("corrupt")
		return nil, false
	}

	uc.countCache("hit")
	return &summary, true
}

func (uc *BalanceUseCase) remember(ctx context.Context, summary *domain.BalanceSummary) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(summary)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to encode balance summary")
		return
	}
	if err := uc.cache.Set(ctx, BalanceCacheKey(summary.UserID), data, uc.ttl); err != nil {
		uc.logger.Warn().Err(err).Str("user_id", summary.UserID).Msg("balance cache write failed")
	}
}

func (uc *BalanceUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.BalanceCache.WithLabelValues(result).Inc()
	}
}
