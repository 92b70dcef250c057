// Package calculator holds the pure split and balance computations. Nothing
// here performs I/O; every function is safe for concurrent use.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// PercentTolerance is how far percentages may drift from 100 in total.
var PercentTolerance = decimal.RequireFromString("0.001")

var hundred = decimal.NewFromInt(100)

// SplitSpec describes one split request.
type SplitSpec struct {
	Total          decimal.Decimal
	CustomAmounts  map[string]decimal.Decimal
	Percentages    map[string]decimal.Decimal
	PayerID        string
	Method         domain.SplitMethod
	ParticipantIDs []string
	Items          []domain.Item
}

// Share is one user's portion of an allocation.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Allocation is the outcome of ComputeSplit. Shares are in participant order;
// for itemized splits a payer outside the participant list is appended last.
type Allocation struct {
	Total    decimal.Decimal    `json:"total"`
	Residual decimal.Decimal    `json:"residual"`
	Method   domain.SplitMethod `json:"method"`
	Shares   []Share            `json:"shares"`
}

// Sum returns the sum of all shares.
func (a *Allocation) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range a.Shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// ByUser returns shares keyed by user id.
func (a *Allocation) ByUser() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(a.Shares))
	for _, s := range a.Shares {
		m[s.UserID] = s.Amount
	}
	return m
}

// AssignResidualTo folds the unallocated gap of an exact split into userID's
// share, adding the user if absent. Afterwards Sum equals Total.
func (a *Allocation) AssignResidualTo(userID string) {
	if a.Residual.IsZero() {
		return
	}
	for i := range a.Shares {
		if a.Shares[i].UserID == userID {
			a.Shares[i].Amount = a.Shares[i].Amount.Add(a.Residual)
			a.Residual = decimal.Zero
			return
		}
	}
	a.Shares = append(a.Shares, Share{UserID: userID, Amount: a.Residual})
	a.Residual = decimal.Zero
}

// ComputeSplit divides a total among participants. Shares always sum to the
// total exactly, except for exact splits where the unassigned gap is
// reported as Residual.
func ComputeSplit(spec SplitSpec) (*Allocation, error) {
	if err := validateParticipants(spec.ParticipantIDs); err != nil {
		return nil, err
	}
	if spec.Method != domain.SplitItemized {
		if err := domain.ValidateAmount(spec.Total); err != nil {
			return nil, err
		}
	}

	switch spec.Method {
	case domain.SplitEqual:
		return splitEqual(spec.Total, spec.ParticipantIDs), nil
	case domain.SplitExact:
		return splitExact(spec.Total, spec.ParticipantIDs, spec.CustomAmounts)
	case domain.SplitPercentage:
		return splitPercentage(spec.Total, spec.ParticipantIDs, spec.Percentages)
	case domain.SplitItemized:
		return splitItemized(spec.PayerID, spec.ParticipantIDs, spec.Items)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSplitMethod, spec.Method)
	}
}

func validateParticipants(ids []string) error {
	if len(ids) == 0 {
		return domain.ErrNoParticipants
	}
	if len(ids) > domain.MaxParticipants {
		return fmt.Errorf("%w: at most %d participants", domain.ErrValidation, domain.MaxParticipants)
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: participant user id is empty", domain.ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}
	return nil
}

// divideCents gives every slot round(cents/n), half up, and settles the
// signed remainder at slot zero.
func divideCents(cents int64, n int) []int64 {
	out := make([]int64, n)
	base := (2*cents + int64(n)) / (2 * int64(n))
	for i := range out {
		out[i] = base
	}
	settleResidual(out, cents-base*int64(n), func(int) bool { return true })
	return out
}

// settleResidual adds a positive residual to the first eligible slot. A
// negative residual is taken from eligible slots in order, never driving
// one below zero.
func settleResidual(cents []int64, residual int64, eligible func(int) bool) {
	for i := range cents {
		if residual == 0 {
			return
		}
		if !eligible(i) {
			continue
		}
		if residual > 0 {
			cents[i] += residual
			return
		}
		take := min(-residual, cents[i])
		cents[i] -= take
		residual += take
	}
}

func splitEqual(total decimal.Decimal, ids []string) *Allocation {
	cents := divideCents(domain.ToCents(total), len(ids))
	shares := make([]Share, len(ids))
	for i, id := range ids {
		shares[i] = Share{UserID: id, Amount: domain.FromCents(cents[i])}
	}
	return &Allocation{Method: domain.SplitEqual, Total: total, Shares: shares, Residual: decimal.Zero}
}

func splitExact(total decimal.Decimal, ids []string, amounts map[string]decimal.Decimal) (*Allocation, error) {
	index := make(map[string]bool, len(ids))
	for _, id := range ids {
		index[id] = true
	}

	sum := decimal.Zero
	for id, amount := range amounts {
		if !index[id] {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownParticipant, id)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: %s owes %s", domain.ErrNegativeShare, id, amount)
		}
		if !domain.IsMoney(amount) {
			return nil, fmt.Errorf("%w: %s owes %s", domain.ErrInvalidPrecision, id, amount)
		}
		sum = sum.Add(amount)
	}
	if sum.GreaterThan(total) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrExactSumExceedsTotal, sum.StringFixed(domain.MoneyScale), total.StringFixed(domain.MoneyScale))
	}

	shares := make([]Share, len(ids))
	for i, id := range ids {
		amount, ok := amounts[id]
		if !ok {
			amount = decimal.Zero
		}
		shares[i] = Share{UserID: id, Amount: amount}
	}

	return &Allocation{Method: domain.SplitExact, Total: total, Shares: shares, Residual: total.Sub(sum)}, nil
}

func splitPercentage(total decimal.Decimal, ids []string, pcts map[string]decimal.Decimal) (*Allocation, error) {
	index := make(map[string]bool, len(ids))
	for _, id := range ids {
		index[id] = true
	}

	sumPct := decimal.Zero
	for id, pct := range pcts {
		if !index[id] {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownParticipant, id)
		}
		if pct.IsNegative() {
			return nil, fmt.Errorf("%w: %s has %s%%", domain.ErrPercentageSum, id, pct)
		}
		sumPct = sumPct.Add(pct)
	}
	if sumPct.Sub(hundred).Abs().GreaterThan(PercentTolerance) {
		return nil, fmt.Errorf("%w: got %s", domain.ErrPercentageSum, sumPct)
	}

	totalCents := domain.ToCents(total)
	scaled := decimal.NewFromInt(totalCents)
	cents := make([]int64, len(ids))
	allocated := int64(0)
	for i, id := range ids {
		pct, ok := pcts[id]
		if !ok || pct.IsZero() {
			continue
		}
		cents[i] = scaled.Mul(pct).Div(hundred).Round(0).IntPart()
		allocated += cents[i]
	}
	// Zero-percent participants never absorb the residual.
	settleResidual(cents, totalCents-allocated, func(i int) bool {
		return pcts[ids[i]].IsPositive()
	})

	shares := make([]Share, len(ids))
	for i, id := range ids {
		shares[i] = Share{UserID: id, Amount: domain.FromCents(cents[i])}
	}
	return &Allocation{Method: domain.SplitPercentage, Total: total, Shares: shares, Residual: decimal.Zero}, nil
}

func splitItemized(payerID string, ids []string, items []domain.Item) (*Allocation, error) {
	if len(items) == 0 {
		return nil, domain.ErrNoItems
	}
	if len(items) > domain.MaxItems {
		return nil, fmt.Errorf("%w: at most %d items", domain.ErrInvalidItem, domain.MaxItems)
	}

	index := make(map[string]int, len(ids)+1)
	order := make([]string, len(ids))
	copy(order, ids)
	for i, id := range ids {
		index[id] = i
	}
	cents := make([]int64, len(ids), len(ids)+1)

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		itemCents := domain.ToCents(item.Total())

		if len(item.AssignedUserIDs) == 0 {
			if payerID == "" {
				return nil, fmt.Errorf("%w: unassigned item %q needs a payer", domain.ErrPayerRequired, item.Name)
			}
			if _, ok := index[payerID]; !ok {
				index[payerID] = len(order)
				order = append(order, payerID)
				cents = append(cents, 0)
			}
			cents[index[payerID]] += itemCents
			continue
		}

		parts := divideCents(itemCents, len(item.AssignedUserIDs))
		for i, uid := range item.AssignedUserIDs {
			pos, ok := index[uid]
			if !ok || pos >= len(ids) {
				return nil, fmt.Errorf("%w: %s assigned to %q", domain.ErrUnknownParticipant, uid, item.Name)
			}
			cents[pos] += parts[i]
		}
	}

	totalCents := int64(0)
	shares := make([]Share, len(order))
	for i, id := range order {
		shares[i] = Share{UserID: id, Amount: domain.FromCents(cents[i])}
		totalCents += cents[i]
	}

	total := domain.FromCents(totalCents)
	if err := domain.ValidateAmount(total); err != nil {
		return nil, err
	}
	return &Allocation{Method: domain.SplitItemized, Total: total, Shares: shares, Residual: decimal.Zero}, nil
}
