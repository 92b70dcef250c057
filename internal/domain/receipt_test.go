package domain

import (
	"errors"
	"testing"
	"time"
)

func TestReceipt_ToItems(t *testing.T) {
	r := &Receipt{
		Merchant: "Corner Deli",
		Date:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Total:    money("13.99"),
		Items: []ReceiptItem{
			{Name: "sandwich", Price: money("9.99")},
			{Name: "soda", Price: money("2.00"), Quantity: 2},
		},
	}

	items, err := r.ToItems()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Fatalf("expected missing quantity to default to 1, got %d", items[0].Quantity)
	}
	if len(items[1].AssignedUserIDs) != 0 {
		t.Fatalf("expected unassigned items")
	}

	if _, mismatch := r.TotalMismatch(items); mismatch {
		t.Fatalf("expected totals to agree")
	}

	r.Total = money("15.00")
	diff, mismatch := r.TotalMismatch(items)
	if !mismatch || !diff.Equal(money("1.01")) {
		t.Fatalf("expected mismatch of 1.01, got %s (%v)", diff, mismatch)
	}
}

func TestReceipt_ToItemsErrors(t *testing.T) {
	empty := &Receipt{Merchant: "nothing"}
	if _, err := empty.ToItems(); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}

	bad := &Receipt{Items: []ReceiptItem{{Name: "refund", Price: money("-3.00"), Quantity: 1}}}
	if _, err := bad.ToItems(); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}
