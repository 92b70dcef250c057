package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestTransaction() *Transaction {
	return &Transaction{
		ID:          "tx-1",
		Description: "dinner",
		Amount:      money("30.00"),
		PayerID:     "alice",
		SplitMethod: SplitEqual,
		Participants: []Participant{
			{UserID: "alice", ShareAmount: money("10.00"), Paid: true},
			{UserID: "bob", ShareAmount: money("10.00")},
			{UserID: "carol", ShareAmount: money("10.00")},
		},
		Version: 1,
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(tx *Transaction)
		expectError error
	}{
		{
			name:   "valid transaction",
			mutate: func(tx *Transaction) {},
		},
		{
			name: "itemized items match amount",
			mutate: func(tx *Transaction) {
				tx.SplitMethod = SplitItemized
				tx.Items = []Item{
					{Name: "pasta", UnitPrice: money("12.00"), Quantity: 2, AssignedUserIDs: []string{"bob", "carol"}},
					{Name: "wine", UnitPrice: money("6.00"), Quantity: 1},
				}
			},
		},
		{
			name: "itemized items exceed amount",
			mutate: func(tx *Transaction) {
				tx.SplitMethod = SplitItemized
				tx.Items = []Item{
					{Name: "yacht", UnitPrice: money("92233720368547758.08"), Quantity: 1, AssignedUserIDs: []string{"bob"}},
				}
			},
			expectError: ErrAmountTooLarge,
		},
		{
			name: "itemized items do not sum to amount",
			mutate: func(tx *Transaction) {
				tx.SplitMethod = SplitItemized
				tx.Items = []Item{{Name: "pasta", UnitPrice: money("12.00"), Quantity: 2}}
			},
			expectError: ErrItemSumMismatch,
		},
		{
			name:        "shares do not sum to amount",
			mutate:      func(tx *Transaction) { tx.Participants[1].ShareAmount = money("9.99") },
			expectError: ErrShareSumMismatch,
		},
		{
			name: "duplicate participant",
			mutate: func(tx *Transaction) {
				tx.Participants[2].UserID = "bob"
			},
			expectError: ErrDuplicateParticipant,
		},
		{
			name: "negative share",
			mutate: func(tx *Transaction) {
				tx.Participants[1].ShareAmount = money("-10.00")
				tx.Participants[2].ShareAmount = money("30.00")
			},
			expectError: ErrNegativeShare,
		},
		{
			name:        "non-positive amount",
			mutate:      func(tx *Transaction) { tx.Amount = decimal.Zero },
			expectError: ErrInvalidAmount,
		},
		{
			name:        "no participants",
			mutate:      func(tx *Transaction) { tx.Participants = nil },
			expectError: ErrNoParticipants,
		},
		{
			name:        "missing payer",
			mutate:      func(tx *Transaction) { tx.PayerID = "" },
			expectError: ErrPayerRequired,
		},
		{
			name:        "unknown method",
			mutate:      func(tx *Transaction) { tx.SplitMethod = "lottery" },
			expectError: ErrUnknownSplitMethod,
		},
		{
			name:        "empty description",
			mutate:      func(tx *Transaction) { tx.Description = "  " },
			expectError: ErrInvalidDescription,
		},
		{
			name: "items on non-itemized transaction",
			mutate: func(tx *Transaction) {
				tx.Items = []Item{{Name: "wine", UnitPrice: money("30.00"), Quantity: 1}}
			},
			expectError: ErrItemsNotAllowed,
		},
		{
			name: "sub-cent share",
			mutate: func(tx *Transaction) {
				tx.Participants[1].ShareAmount = money("10.005")
				tx.Participants[2].ShareAmount = money("9.995")
			},
			expectError: ErrInvalidPrecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction()
			tt.mutate(tx)

			err := tx.Validate()

			if tt.expectError == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestTransaction_Status(t *testing.T) {
	tx := newTestTransaction()
	if tx.Status() != StatusOpen {
		t.Fatalf("expected open, got %s", tx.Status())
	}

	for i := range tx.Participants {
		tx.Participants[i].Paid = true
	}
	if tx.Status() != StatusSettled {
		t.Fatalf("expected settled, got %s", tx.Status())
	}
}

func TestTransaction_MarkPaid(t *testing.T) {
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	ref := "venmo-123"

	t.Run("marks participant and keeps transaction open", func(t *testing.T) {
		tx := newTestTransaction()

		changed, err := tx.MarkPaid([]string{"bob"}, &ref, at)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(changed) != 1 || changed[0] != "bob" {
			t.Fatalf("expected bob to change, got %v", changed)
		}

		bob, _ := tx.Participant("bob")
		if !bob.Paid || bob.PaidAt == nil || *bob.PaymentMethodRef != ref {
			t.Fatalf("expected bob paid with ref, got %+v", bob)
		}
		if tx.SettledAt != nil {
			t.Fatalf("expected no settled_at while carol is unpaid")
		}
	})

	t.Run("already paid is a no-op", func(t *testing.T) {
		tx := newTestTransaction()

		changed, err := tx.MarkPaid([]string{"alice"}, nil, at)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(changed) != 0 {
			t.Fatalf("expected no change, got %v", changed)
		}
	})

	t.Run("unknown participant fails without mutation", func(t *testing.T) {
		tx := newTestTransaction()

		_, err := tx.MarkPaid([]string{"bob", "mallory"}, nil, at)
		if !errors.Is(err, ErrParticipantNotFound) {
			t.Fatalf("expected participant not found, got %v", err)
		}
		bob, _ := tx.Participant("bob")
		if bob.Paid {
			t.Fatalf("expected bob to remain unpaid")
		}
	})

	t.Run("last payment settles transaction", func(t *testing.T) {
		tx := newTestTransaction()

		if _, err := tx.MarkPaid(tx.UnpaidUserIDs(), nil, at); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Status() != StatusSettled {
			t.Fatalf("expected settled, got %s", tx.Status())
		}
		if tx.SettledAt == nil || !tx.SettledAt.Equal(at) {
			t.Fatalf("expected settled_at %v, got %v", at, tx.SettledAt)
		}
	})
}

func TestTransaction_ReconcileSettledAtOverridesStaleFlag(t *testing.T) {
	tx := newTestTransaction()
	stale := time.Now()
	tx.SettledAt = &stale

	tx.ReconcileSettledAt(time.Now())

	if tx.SettledAt != nil {
		t.Fatalf("expected settled_at cleared for open transaction")
	}
}

func TestTransaction_Parties(t *testing.T) {
	tx := newTestTransaction()
	tx.Participants = tx.Participants[1:]

	parties := tx.Parties()
	want := []string{"alice", "bob", "carol"}
	if len(parties) != len(want) {
		t.Fatalf("expected %v, got %v", want, parties)
	}
	for i := range want {
		if parties[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, parties)
		}
	}
	if !tx.Involves("alice") || tx.Involves("mallory") {
		t.Fatalf("unexpected Involves result")
	}
}

func TestTransaction_CloneIsDeep(t *testing.T) {
	group := "trip"
	tx := newTestTransaction()
	tx.GroupID = &group
	tx.SplitMethod = SplitItemized
	tx.Items = []Item{{Name: "pizza", UnitPrice: money("30.00"), Quantity: 1, AssignedUserIDs: []string{"bob"}}}

	c := tx.Clone()
	c.Participants[1].Paid = true
	c.Items[0].AssignedUserIDs[0] = "carol"
	*c.GroupID = "other"

	if tx.Participants[1].Paid {
		t.Fatal("clone shares participants with original")
	}
	if tx.Items[0].AssignedUserIDs[0] != "bob" {
		t.Fatal("clone shares item assignees with original")
	}
	if *tx.GroupID != "trip" {
		t.Fatal("clone shares group id with original")
	}
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{name: "valid", item: Item{Name: "beer", UnitPrice: money("4.50"), Quantity: 2}},
		{name: "free item", item: Item{Name: "bread", UnitPrice: decimal.Zero, Quantity: 1}},
		{name: "zero quantity", item: Item{Name: "beer", UnitPrice: money("4.50")}, wantErr: true},
		{name: "negative price", item: Item{Name: "coupon", UnitPrice: money("-1"), Quantity: 1}, wantErr: true},
		{name: "total over limit", item: Item{Name: "yacht", UnitPrice: money("500000000000.01"), Quantity: 2}, wantErr: true},
		{name: "total at limit", item: Item{Name: "tower", UnitPrice: money("500000000000.00"), Quantity: 2}},
		{name: "repeated assignee", item: Item{Name: "beer", UnitPrice: money("4.50"), Quantity: 1, AssignedUserIDs: []string{"a", "a"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	if total := (Item{UnitPrice: money("4.50"), Quantity: 3}).Total(); !total.Equal(money("13.50")) {
		t.Fatalf("expected 13.50, got %s", total)
	}
}
