package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// SplitMethod selects how a transaction amount is divided among participants.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitExact      SplitMethod = "exact"
	SplitPercentage SplitMethod = "percentage"
	SplitItemized   SplitMethod = "itemized"
)

// IsValid checks if the split method is known.
func (m SplitMethod) IsValid() bool {
	switch m {
	case SplitEqual, SplitExact, SplitPercentage, SplitItemized:
		return true
	}
	return false
}

// TransactionStatus is derived from participant state and never stored.
type TransactionStatus string

const (
	StatusOpen    TransactionStatus = "open"
	StatusSettled TransactionStatus = "settled"
)

// Participant is one user's share of a transaction.
type Participant struct {
	UserID           string
	ShareAmount      decimal.Decimal
	Paid             bool
	PaidAt           *time.Time
	PaymentMethodRef *string
}

// Item is a receipt line used by itemized splits.
type Item struct {
	Name            string
	UnitPrice       decimal.Decimal
	Quantity        int
	AssignedUserIDs []string
}

// Total returns unit price times quantity.
func (i Item) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks that the item is well formed.
func (i Item) Validate() error {
	if i.Quantity <= 0 {
		return fmt.Errorf("%w: %q quantity must be positive", ErrInvalidItem, i.Name)
	}
	if i.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %q unit price must not be negative", ErrInvalidItem, i.Name)
	}
	if !IsMoney(i.UnitPrice) {
		return fmt.Errorf("%w: %q unit price %s", ErrInvalidPrecision, i.Name, i.UnitPrice)
	}
	if i.Total().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: %q totals %s, maximum is %s", ErrAmountTooLarge, i.Name, i.Total(), MaxAmount)
	}
	seen := make(map[string]bool, len(i.AssignedUserIDs))
	for _, id := range i.AssignedUserIDs {
		if id == "" || seen[id] {
			return fmt.Errorf("%w: %q has an empty or repeated assignee", ErrInvalidItem, i.Name)
		}
		seen[id] = true
	}
	return nil
}

// Transaction is a shared expense paid by one user and owed by its participants.
type Transaction struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SettledAt    *time.Time
	GroupID      *string
	ID           string
	Description  string
	PayerID      string
	SplitMethod  SplitMethod
	Amount       decimal.Decimal
	Participants []Participant
	Items        []Item
	Version      int64
}

// Status derives OPEN/SETTLED from participant paid flags.
func (t *Transaction) Status() TransactionStatus {
	for _, p := range t.Participants {
		if !p.Paid {
			return StatusOpen
		}
	}
	return StatusSettled
}

// Participant returns the entry for userID.
func (t *Transaction) Participant(userID string) (*Participant, bool) {
	for i := range t.Participants {
		if t.Participants[i].UserID == userID {
			return &t.Participants[i], true
		}
	}
	return nil, false
}

// Involves reports whether userID is the payer or a participant.
func (t *Transaction) Involves(userID string) bool {
	if t.PayerID == userID {
		return true
	}
	_, ok := t.Participant(userID)
	return ok
}

// Parties returns the payer followed by every other participant, without repeats.
func (t *Transaction) Parties() []string {
	parties := make([]string, 0, len(t.Participants)+1)
	parties = append(parties, t.PayerID)
	for _, p := range t.Participants {
		if p.UserID != t.PayerID {
			parties = append(parties, p.UserID)
		}
	}
	return parties
}

// UnpaidUserIDs lists participants that still owe their share, in list order.
func (t *Transaction) UnpaidUserIDs() []string {
	var ids []string
	for _, p := range t.Participants {
		if !p.Paid {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// MarkPaid flips the listed participants to paid and returns those that changed.
// It fails without mutating anything if any user is not a participant.
func (t *Transaction) MarkPaid(userIDs []string, paymentMethodRef *string, at time.Time) ([]string, error) {
	for _, id := range userIDs {
		if _, ok := t.Participant(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrParticipantNotFound, id)
		}
	}

	var changed []string
	for _, id := range userIDs {
		p, _ := t.Participant(id)
		if p.Paid {
			continue
		}
		paidAt := at
		p.Paid = true
		p.PaidAt = &paidAt
		p.PaymentMethodRef = paymentMethodRef
		changed = append(changed, id)
	}

	t.ReconcileSettledAt(at)
	return changed, nil
}

// ReconcileSettledAt makes SettledAt agree with participant state. A stored
// settled flag that disagrees with the participants is overridden.
func (t *Transaction) ReconcileSettledAt(at time.Time) {
	switch t.Status() {
	case StatusSettled:
		if t.SettledAt == nil {
			settledAt := at
			t.SettledAt = &settledAt
		}
	case StatusOpen:
		t.SettledAt = nil
	}
}

// ShareSum returns the sum of all participant shares.
func (t *Transaction) ShareSum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.Participants {
		sum = sum.Add(p.ShareAmount)
	}
	return sum
}

// Validate checks share conservation, uniqueness and non-negativity.
func (t *Transaction) Validate() error {
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if t.PayerID == "" {
		return ErrPayerRequired
	}
	if !t.SplitMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownSplitMethod, t.SplitMethod)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if len(t.Participants) == 0 {
		return ErrNoParticipants
	}

	seen := make(map[string]bool, len(t.Participants))
	for _, p := range t.Participants {
		if p.UserID == "" {
			return fmt.Errorf("%w: participant user id is empty", ErrValidation)
		}
		if seen[p.UserID] {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.UserID)
		}
		seen[p.UserID] = true

		if p.ShareAmount.IsNegative() {
			return fmt.Errorf("%w: %s owes %s", ErrNegativeShare, p.UserID, p.ShareAmount)
		}
		if !IsMoney(p.ShareAmount) {
			return fmt.Errorf("%w: %s owes %s", ErrInvalidPrecision, p.UserID, p.ShareAmount)
		}
	}

	if sum := t.ShareSum(); !sum.Equal(t.Amount) {
		return fmt.Errorf("%w: shares sum to %s, amount is %s", ErrShareSumMismatch, sum.StringFixed(MoneyScale), t.Amount.StringFixed(MoneyScale))
	}

	if len(t.Items) > 0 && t.SplitMethod != SplitItemized {
		return ErrItemsNotAllowed
	}
	itemSum := decimal.Zero
	for _, item := range t.Items {
		if err := item.Validate(); err != nil {
			return err
		}
		itemSum = itemSum.Add(item.Total())
	}
	if len(t.Items) > 0 && !itemSum.Equal(t.Amount) {
		return fmt.Errorf("%w: items sum to %s, amount is %s", ErrItemSumMismatch, itemSum.StringFixed(MoneyScale), t.Amount.StringFixed(MoneyScale))
	}

	return nil
}

// Clone returns a deep copy.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.Participants = slices.Clone(t.Participants)
	c.Items = make([]Item, len(t.Items))
	for i, item := range t.Items {
		item.AssignedUserIDs = slices.Clone(item.AssignedUserIDs)
		c.Items[i] = item
	}
	if t.Items == nil {
		c.Items = nil
	}
	if t.GroupID != nil {
		g := *t.GroupID
		c.GroupID = &g
	}
	if t.SettledAt != nil {
		s := *t.SettledAt
		c.SettledAt = &s
	}
	return &c
}

// SettleCommand asks the store to mark participants paid in one atomic step.
type SettleCommand struct {
	At               time.Time
	PaymentMethodRef *string
	TransactionID    string
	ActorID          string
	UserIDs          []string
	ExpectedVersion  int64
}
