package domain

import "github.com/shopspring/decimal"

// BalanceSummary is the outstanding position of one user. Positive amounts are
// owed to the user, negative amounts are owed by the user. It is a projection of
// the transaction set and is never written back to the store.
type BalanceSummary struct {
	PerCounterparty map[string]decimal.Decimal `json:"per_counterparty"`
	PerGroup        map[string]decimal.Decimal `json:"per_group"`
	UserID          string                     `json:"user_id"`
	TotalOwedToMe   decimal.Decimal            `json:"total_owed_to_me"`
	TotalIOwe       decimal.Decimal            `json:"total_i_owe"`
	NetBalance      decimal.Decimal            `json:"net_balance"`
}

// IntegrityWarning reports a counterparty whose externally supplied balance
// disagrees with the computed one by more than a cent.
type IntegrityWarning struct {
	Counterparty string          `json:"counterparty"`
	Computed     decimal.Decimal `json:"computed"`
	External     decimal.Decimal `json:"external"`
	Difference   decimal.Decimal `json:"difference"`
}

// MemberPosition is a user's net position within a group.
type MemberPosition struct {
	UserID string          `json:"user_id"`
	Net    decimal.Decimal `json:"net"`
}

// SuggestedPayment is one payment that, together with the others, clears a group.
type SuggestedPayment struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}
