package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/tests/testutil"
)

func TestOutboxEventsFollowStateChanges(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)
	s := db.NewStack(nil)

	alice := testutil.As(ctx, "alice")
	tx, err := s.Transactions.CreateTransaction(alice, dinner("alice", "9", "alice", "bob"))
	require.NoError(t, err)

	_, err = s.Settlements.SettleWholeTransaction(alice, usecase.SettleInput{TransactionID: tx.ID})
	require.NoError(t, err)

	events, err := s.Outbox.GetUnpublished(ctx, 100)
	require.NoError(t, err)

	var types []string
	for _, e := range events {
		assert.Equal(t, tx.ID, e.AggregateID)
		types = append(types, e.EventType)
	}
	assert.Equal(t, []string{
		domain.EventTypeTransactionCreated,
		domain.EventTypeParticipantPaid,
		domain.EventTypeTransactionSettled,
	}, types)

	byAggregate, err := s.Outbox.TransactionEvents(ctx, tx.ID, 10)
	require.NoError(t, err)
	assert.Len(t, byAggregate, len(events))

	require.NotEmpty(t, events)
	require.NoError(t, s.Outbox.MarkPublished(ctx, events[0].ID, time.Now()))
	remaining, err := s.Outbox.GetUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestFailedSettlementWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	db.TruncateAll(ctx)
	s := db.NewStack(nil)

	alice := testutil.As(ctx, "alice")
	tx, err := s.Transactions.CreateTransaction(alice, dinner("alice", "9", "alice", "bob"))
	require.NoError(t, err)

	_, err = s.Store.Settle(ctx, domain.SettleCommand{
		At:              time.Now(),
		TransactionID:   tx.ID,
		ActorID:         "alice",
		UserIDs:         []string{"bob"},
		ExpectedVersion: tx.Version + 5,
	})
	require.ErrorIs(t, err, domain.ErrVersionMismatch)

	events, err := s.Outbox.GetUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, events, 1, "only the creation event exists")

	history, err := s.Audit.GetByResourceID(ctx, domain.AggregateTypeTransaction, tx.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
