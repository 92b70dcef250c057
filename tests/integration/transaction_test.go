package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/tests/testutil"
)

func dinner(payer string, amount string, participants ...string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{SplitInput: usecase.SplitInput{
		Description:    "dinner",
		PayerID:        payer,
		Method:         domain.SplitEqual,
		Amount:         decimal.RequireFromString(amount),
		ParticipantIDs: participants,
	}}
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)
	s := db.NewStack(nil)

	alice := testutil.As(ctx, "alice")

	created, err := s.Transactions.CreateTransaction(alice, dinner("alice", "10", "alice", "bob", "carol"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	got, err := s.Transactions.GetTransaction(testutil.As(ctx, "bob"), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 3)
	assert.Equal(t, "3.34", got.Participants[0].ShareAmount.StringFixed(2))
	assert.Equal(t, "3.33", got.Participants[1].ShareAmount.StringFixed(2))
	assert.True(t, got.ShareSum().Equal(got.Amount))
	assert.True(t, got.Participants[0].Paid, "payer's own share is recorded paid")

	_, err = s.Transactions.GetTransaction(testutil.As(ctx, "mallory"), created.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	update := usecase.UpdateTransactionInput{
		SplitInput:      dinner("alice", "12", "alice", "bob").SplitInput,
		ID:              created.ID,
		ExpectedVersion: created.Version,
	}
	updated, err := s.Transactions.UpdateTransaction(alice, update)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	require.Len(t, updated.Participants, 2)
	assert.Equal(t, "6.00", updated.Participants[1].ShareAmount.StringFixed(2))

	// Stale version.
	_, err = s.Transactions.UpdateTransaction(alice, update)
	assert.ErrorIs(t, err, domain.ErrConflict)

	history, err := s.Transactions.History(alice, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(domain.AuditActionTransactionCreate), history[0].Action)
	assert.Equal(t, string(domain.AuditActionTransactionUpdate), history[1].Action)

	require.NoError(t, s.Transactions.DeleteTransaction(alice, created.ID, updated.Version))
	_, err = s.Transactions.GetTransaction(alice, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "got %v", err)
}

func TestListTransactionsPagination(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)
	s := db.NewStack(nil)

	alice := testutil.As(ctx, "alice")
	for range 5 {
		_, err := s.Transactions.CreateTransaction(alice, dinner("alice", "4", "alice", "bob"))
		require.NoError(t, err)
	}
	_, err := s.Transactions.CreateTransaction(testutil.As(ctx, "carol"), dinner("carol", "4", "carol", "dave"))
	require.NoError(t, err)

	page, err := s.Transactions.ListForUser(testutil.As(ctx, "bob"), "bob", 3, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := s.Transactions.ListForUser(testutil.As(ctx, "bob"), "bob", 3, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	_, err = s.Transactions.ListForUser(alice, "bob", 3, 0)
	assert.ErrorIs(t, err, domain.ErrNotSelf)
}

func TestGroupTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)
	s := db.NewStack(nil)

	for _, id := range []string{"alice", "bob", "carol"} {
		db.CreateTestUser(ctx, id)
	}
	alice := testutil.As(ctx, "alice")

	group, err := s.Directory.CreateGroup(alice, usecase.CreateGroupInput{Name: "trip", MemberIDs: []string{"bob"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, group.Members)

	input := dinner("alice", "20", "alice", "bob")
	input.GroupID = &group.ID
	_, err = s.Transactions.CreateTransaction(alice, input)
	require.NoError(t, err)

	outsider := dinner("alice", "20", "alice", "carol")
	outsider.GroupID = &group.ID
	_, err = s.Transactions.CreateTransaction(alice, outsider)
	assert.ErrorIs(t, err, domain.ErrValidation)

	txs, err := s.Transactions.ListForGroup(testutil.As(ctx, "bob"), group.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	_, err = s.Transactions.ListForGroup(testutil.As(ctx, "carol"), group.ID, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotMember)

	settleUp, err := s.Balances.GroupSettleUp(alice, group.ID)
	require.NoError(t, err)
	require.Len(t, settleUp.Payments, 1)
	assert.Equal(t, "bob", settleUp.Payments[0].FromUserID)
	assert.Equal(t, "alice", settleUp.Payments[0].ToUserID)
	assert.Equal(t, "10.00", settleUp.Payments[0].Amount.StringFixed(2))
}
