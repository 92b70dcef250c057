package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func TestBalanceUseCase_GetBalancesCachesSummary(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	store.Put(dinner())
	cache := mocks.NewMockCache()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	uc := usecase.NewBalanceUseCase(store, mocks.NewMockGroupRepository(), cache, time.Minute, m, zerolog.Nop())

	summary, err := uc.GetBalances(as("alice"), "alice")
	require.NoError(t, err)
	assert.True(t, summary.NetBalance.Equal(dec("20.00")))
	assert.True(t, cache.Has(usecase.BalanceCacheKey("alice")))
	assert.Equal(t, time.Minute, cache.TTLs[usecase.BalanceCacheKey("alice")])

	calls := 0
	store.ListForUserFunc = func(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
		calls++
		return nil, nil
	}

	cached, err := uc.GetBalances(as("alice"), "alice")
	require.NoError(t, err)
	assert.Zero(t, calls, "second read is served from cache")
	assert.True(t, cached.PerCounterparty["bob"].Equal(dec("10.00")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BalanceCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BalanceCache.WithLabelValues("miss")))

	uc.Invalidate(context.Background(), "alice", "bob", "alice")
	assert.False(t, cache.Has(usecase.BalanceCacheKey("alice")))

	_, err = uc.GetBalances(as("alice"), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBalanceUseCase_CacheFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewGoMockCache(ctrl)
	store := mocks.NewMockTransactionStore()
	store.Put(dinner())

	cache.EXPECT().Get(gomock.Any(), "balance:bob").Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), "balance:bob", gomock.Any(), usecase.DefaultBalanceCacheTTL).Return(errors.New("redis down"))
	cache.EXPECT().Delete(gomock.Any(), "balance:bob").Return(errors.New("redis down"))

	uc := usecase.NewBalanceUseCase(store, mocks.NewMockGroupRepository(), cache, 0, nil, zerolog.Nop())

	summary, err := uc.GetBalances(as("bob"), "bob")
	require.NoError(t, err)
	assert.True(t, summary.TotalIOwe.Equal(dec("10.00")))

	uc.Invalidate(context.Background(), "bob")
}

func TestBalanceUseCase_PermissionAndStoreErrors(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	uc := usecase.NewBalanceUseCase(store, mocks.NewMockGroupRepository(), nil, 0, nil, zerolog.Nop())

	_, err := uc.GetBalances(as("bob"), "alice")
	assert.ErrorIs(t, err, domain.ErrNotSelf)

	_, err = uc.GetBalances(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrActorRequired)

	store.ListForUserFunc = func(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
		return nil, errors.New("no route to host")
	}
	_, err = uc.GetBalances(as("alice"), "alice")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestBalanceUseCase_Reconcile(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	store.Put(dinner())
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	uc := usecase.NewBalanceUseCase(store, mocks.NewMockGroupRepository(), nil, 0, m, zerolog.Nop())

	warnings, err := uc.Reconcile(as("alice"), "alice", map[string]decimal.Decimal{
		"bob":   dec("10.00"),
		"carol": dec("12.00"),
	})
	require.NoError(t, err)

	require.Len(t, warnings, 1)
	assert.Equal(t, "carol", warnings[0].Counterparty)
	assert.True(t, warnings[0].Difference.Equal(dec("-2.00")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntegrityWarnings))
}

func TestBalanceUseCase_GroupSettleUp(t *testing.T) {
	store := mocks.NewMockTransactionStore()
	groups := mocks.NewMockGroupRepository()
	trip := "trip"
	require.NoError(t, groups.Create(context.Background(), &domain.Group{ID: trip, Members: []string{"alice", "bob", "carol"}}))

	tx := dinner()
	tx.GroupID = &trip
	store.Put(tx)
	outside := dinner()
	outside.ID = "tx-2"
	store.Put(outside)

	uc := usecase.NewBalanceUseCase(store, groups, nil, 0, nil, zerolog.Nop())

	result, err := uc.GroupSettleUp(as("bob"), trip)
	require.NoError(t, err)

	require.Len(t, result.Payments, 2)
	total := decimal.Zero
	for _, p := range result.Payments {
		assert.Equal(t, "alice", p.ToUserID)
		total = total.Add(p.Amount)
	}
	assert.True(t, total.Equal(dec("20.00")), "only the group's transaction counts")

	_, err = uc.GroupSettleUp(as("mallory"), trip)
	assert.ErrorIs(t, err, domain.ErrNotMember)
}
