package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// ComputeBalances folds the subject's outstanding receivables and payables
// across txs. Paid participants contribute nothing. Transactions repeated in
// txs are counted once.
func ComputeBalances(txs []*domain.Transaction, subjectUserID string) domain.BalanceSummary {
	summary := domain.BalanceSummary{
		UserID:          subjectUserID,
		PerCounterparty: make(map[string]decimal.Decimal),
		PerGroup:        make(map[string]decimal.Decimal),
		TotalOwedToMe:   decimal.Zero,
		TotalIOwe:       decimal.Zero,
		NetBalance:      decimal.Zero,
	}

	add := func(m map[string]decimal.Decimal, key string, amount decimal.Decimal) {
		cur, ok := m[key]
		if !ok {
			cur = decimal.Zero
		}
		m[key] = cur.Add(amount)
	}

	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx == nil || seen[tx.ID] || !tx.Involves(subjectUserID) {
			continue
		}
		seen[tx.ID] = true

		for _, p := range tx.Participants {
			var counterparty string
			var amount decimal.Decimal
			switch {
			case tx.PayerID == subjectUserID && p.UserID != subjectUserID:
				counterparty, amount = p.UserID, p.ShareAmount
			case tx.PayerID != subjectUserID && p.UserID == subjectUserID:
				counterparty, amount = tx.PayerID, p.ShareAmount.Neg()
			default:
				continue
			}
			if p.Paid {
				amount = decimal.Zero
			}

			add(summary.PerCounterparty, counterparty, amount)
			if tx.GroupID != nil {
				add(summary.PerGroup, *tx.GroupID, amount)
			}
		}
	}

	for _, amount := range summary.PerCounterparty {
		switch {
		case amount.IsPositive():
			summary.TotalOwedToMe = summary.TotalOwedToMe.Add(amount)
		case amount.IsNegative():
			summary.TotalIOwe = summary.TotalIOwe.Add(amount.Abs())
		}
	}
	summary.NetBalance = summary.TotalOwedToMe.Sub(summary.TotalIOwe)

	return summary
}

// CompareBalances returns a warning for every counterparty whose computed and
// external balances differ by more than a cent. A counterparty missing on one
// side counts as zero there. Warnings are sorted by counterparty.
func CompareBalances(computed, external map[string]decimal.Decimal) []domain.IntegrityWarning {
	keys := make(map[string]struct{}, len(computed)+len(external))
	for k := range computed {
		keys[k] = struct{}{}
	}
	for k := range external {
		keys[k] = struct{}{}
	}

	var warnings []domain.IntegrityWarning
	for k := range keys {
		c, ok := computed[k]
		if !ok {
			c = decimal.Zero
		}
		e, ok := external[k]
		if !ok {
			e = decimal.Zero
		}
		diff := c.Sub(e)
		if diff.Abs().GreaterThan(domain.OneCent) {
			warnings = append(warnings, domain.IntegrityWarning{
				Counterparty: k,
				Computed:     c,
				External:     e,
				Difference:   diff,
			})
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].Counterparty < warnings[j].Counterparty
	})
	return warnings
}

// GroupPositions nets every member's unpaid shares within the group's
// transactions. Creditors are positive. Members with no activity get zero.
// The result is sorted by user id.
func GroupPositions(txs []*domain.Transaction, members []string) []domain.MemberPosition {
	net := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		net[m] = decimal.Zero
	}

	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx == nil || seen[tx.ID] {
			continue
		}
		seen[tx.ID] = true

		for _, p := range tx.Participants {
			if p.Paid || p.UserID == tx.PayerID {
				continue
			}
			if _, ok := net[tx.PayerID]; !ok {
				net[tx.PayerID] = decimal.Zero
			}
			if _, ok := net[p.UserID]; !ok {
				net[p.UserID] = decimal.Zero
			}
			net[tx.PayerID] = net[tx.PayerID].Add(p.ShareAmount)
			net[p.UserID] = net[p.UserID].Sub(p.ShareAmount)
		}
	}

	positions := make([]domain.MemberPosition, 0, len(net))
	for id, amount := range net {
		positions = append(positions, domain.MemberPosition{UserID: id, Net: amount})
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].UserID < positions[j].UserID
	})
	return positions
}

// SuggestPayments matches the largest debtor with the largest creditor until
// every position is cleared. Positions must net to zero.
func SuggestPayments(positions []domain.MemberPosition) []domain.SuggestedPayment {
	var creditors, debtors []domain.MemberPosition
	for _, p := range positions {
		switch {
		case p.Net.IsPositive():
			creditors = append(creditors, p)
		case p.Net.IsNegative():
			debtors = append(debtors, domain.MemberPosition{UserID: p.UserID, Net: p.Net.Neg()})
		}
	}

	byAmount := func(s []domain.MemberPosition) {
		sort.Slice(s, func(i, j int) bool {
			if !s[i].Net.Equal(s[j].Net) {
				return s[i].Net.GreaterThan(s[j].Net)
			}
			return s[i].UserID < s[j].UserID
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	var payments []domain.SuggestedPayment
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].Net, creditors[j].Net)
		payments = append(payments, domain.SuggestedPayment{
			FromUserID: debtors[i].UserID,
			ToUserID:   creditors[j].UserID,
			Amount:     amount,
		})

		debtors[i].Net = debtors[i].Net.Sub(amount)
		creditors[j].Net = creditors[j].Net.Sub(amount)
		if debtors[i].Net.IsZero() {
			i++
		}
		if creditors[j].Net.IsZero() {
			j++
		}
	}

	return payments
}
