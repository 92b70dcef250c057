package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/calculator"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// Money renders an amount with exactly two fractional digits.
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}

func moneyMap(in map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = Money(v)
	}
	return out
}

// ParticipantResponse represents one share in API responses.
type ParticipantResponse struct {
	UserID           string     `json:"user_id"`
	ShareAmount      string     `json:"share_amount"`
	Paid             bool       `json:"paid"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	PaymentMethodRef *string    `json:"payment_method_ref,omitempty"`
}

// ItemResponse represents a receipt line in API responses.
type ItemResponse struct {
	Name            string   `json:"name"`
	UnitPrice       string   `json:"unit_price"`
	Quantity        int      `json:"quantity"`
	AssignedUserIDs []string `json:"assigned_user_ids"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID           string                `json:"id"`
	GroupID      *string               `json:"group_id,omitempty"`
	Description  string                `json:"description"`
	PayerID      string                `json:"payer_id"`
	SplitMethod  string                `json:"split_method"`
	Amount       string                `json:"amount"`
	Status       string                `json:"status"`
	Participants []ParticipantResponse `json:"participants"`
	Items        []ItemResponse        `json:"items,omitempty"`
	Version      int64                 `json:"version"`
	SettledAt    *time.Time            `json:"settled_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:           t.ID,
		GroupID:      t.GroupID,
		Description:  t.Description,
		PayerID:      t.PayerID,
		SplitMethod:  string(t.SplitMethod),
		Amount:       Money(t.Amount),
		Status:       string(t.Status()),
		Participants: make([]ParticipantResponse, len(t.Participants)),
		Items:        ItemsFromDomain(t.Items),
		Version:      t.Version,
		SettledAt:    t.SettledAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	for i, p := range t.Participants {
		resp.Participants[i] = ParticipantResponse{
			UserID:           p.UserID,
			ShareAmount:      Money(p.ShareAmount),
			Paid:             p.Paid,
			PaidAt:           p.PaidAt,
			PaymentMethodRef: p.PaymentMethodRef,
		}
	}
	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ItemsFromDomain converts domain items to responses.
func ItemsFromDomain(items []domain.Item) []ItemResponse {
	if len(items) == 0 {
		return nil
	}
	result := make([]ItemResponse, len(items))
	for i, it := range items {
		assigned := it.AssignedUserIDs
		if assigned == nil {
			assigned = []string{}
		}
		result[i] = ItemResponse{
			Name:            it.Name,
			UnitPrice:       Money(it.UnitPrice),
			Quantity:        it.Quantity,
			AssignedUserIDs: assigned,
		}
	}
	return result
}

// ListTransactionsResponse represents a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// ShareResponse is one computed share.
type ShareResponse struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// AllocationResponse represents a computed split.
type AllocationResponse struct {
	Method   string          `json:"method"`
	Total    string          `json:"total"`
	Residual string          `json:"residual"`
	Shares   []ShareResponse `json:"shares"`
}

// AllocationFromCalculator converts an allocation to a response.
func AllocationFromCalculator(a *calculator.Allocation) *AllocationResponse {
	resp := &AllocationResponse{
		Method:   string(a.Method),
		Total:    Money(a.Total),
		Residual: Money(a.Residual),
		Shares:   make([]ShareResponse, len(a.Shares)),
	}
	for i, s := range a.Shares {
		resp.Shares[i] = ShareResponse{UserID: s.UserID, Amount: Money(s.Amount)}
	}
	return resp
}

// SettlementResponse reports the outcome of a settlement operation.
type SettlementResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Changed     bool                 `json:"changed"`
}

// SettlementFromUseCase converts a settlement result to a response.
func SettlementFromUseCase(r *usecase.SettlementResult) *SettlementResponse {
	return &SettlementResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Changed:     r.Changed,
	}
}

// BalanceResponse represents a user's balance summary.
type BalanceResponse struct {
	UserID          string            `json:"user_id"`
	PerCounterparty map[string]string `json:"per_counterparty"`
	PerGroup        map[string]string `json:"per_group"`
	TotalOwedToMe   string            `json:"total_owed_to_me"`
	TotalIOwe       string            `json:"total_i_owe"`
	NetBalance      string            `json:"net_balance"`
}

// BalanceFromDomain converts a balance summary to a response.
func BalanceFromDomain(s *domain.BalanceSummary) *BalanceResponse {
	return &BalanceResponse{
		UserID:          s.UserID,
		PerCounterparty: moneyMap(s.PerCounterparty),
		PerGroup:        moneyMap(s.PerGroup),
		TotalOwedToMe:   Money(s.TotalOwedToMe),
		TotalIOwe:       Money(s.TotalIOwe),
		NetBalance:      Money(s.NetBalance),
	}
}

// IntegrityWarningResponse is one counterparty that failed reconciliation.
type IntegrityWarningResponse struct {
	Counterparty string `json:"counterparty"`
	Computed     string `json:"computed"`
	External     string `json:"external"`
	Difference   string `json:"difference"`
}

// ReconcileResponse lists reconciliation warnings.
type ReconcileResponse struct {
	Consistent bool                       `json:"consistent"`
	Warnings   []IntegrityWarningResponse `json:"warnings"`
}

// ReconcileFromDomain converts warnings to a response.
func ReconcileFromDomain(warnings []domain.IntegrityWarning) *ReconcileResponse {
	resp := &ReconcileResponse{
		Consistent: len(warnings) == 0,
		Warnings:   make([]IntegrityWarningResponse, len(warnings)),
	}
	for i, w := range warnings {
		resp.Warnings[i] = IntegrityWarningResponse{
			Counterparty: w.Counterparty,
			Computed:     Money(w.Computed),
			External:     Money(w.External),
			Difference:   Money(w.Difference),
		}
	}
	return resp
}

// PositionResponse is a member's net position in a group.
type PositionResponse struct {
	UserID string `json:"user_id"`
	Net    string `json:"net"`
}

// PaymentResponse is one suggested payment.
type PaymentResponse struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

// SettleUpResponse represents a group's outstanding positions.
type SettleUpResponse struct {
	GroupID   string             `json:"group_id"`
	Positions []PositionResponse `json:"positions"`
	Payments  []PaymentResponse  `json:"payments"`
}

// SettleUpFromUseCase converts a group settlement to a response.
func SettleUpFromUseCase(s *usecase.GroupSettlement) *SettleUpResponse {
	resp := &SettleUpResponse{
		GroupID:   s.GroupID,
		Positions: make([]PositionResponse, len(s.Positions)),
		Payments:  make([]PaymentResponse, len(s.Payments)),
	}
	for i, p := range s.Positions {
		resp.Positions[i] = PositionResponse{UserID: p.UserID, Net: Money(p.Net)}
	}
	for i, p := range s.Payments {
		resp.Payments[i] = PaymentResponse{FromUserID: p.FromUserID, ToUserID: p.ToUserID, Amount: Money(p.Amount)}
	}
	return resp
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupFromDomain converts a domain group to a response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{ID: g.ID, Name: g.Name, Members: g.Members, CreatedAt: g.CreatedAt}
}

// AuditLogResponse represents an audit entry.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Action      string         `json:"action"`
	Status      string         `json:"status"`
	BeforeState map[string]any `json:"before_state,omitempty"`
	AfterState  map[string]any `json:"after_state,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit entries to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			Action:      l.Action,
			Status:      l.Status,
			BeforeState: l.BeforeState,
			AfterState:  l.AfterState,
			CreatedAt:   l.CreatedAt,
		}
	}
	return result
}

// ReceiptItemsResponse is the result of converting a receipt.
type ReceiptItemsResponse struct {
	Items         []ItemResponse `json:"items"`
	TotalMismatch *string        `json:"total_mismatch,omitempty"`
}

// ReceiptItemsFromUseCase converts receipt items to a response.
func ReceiptItemsFromUseCase(r *usecase.ReceiptItems) *ReceiptItemsResponse {
	resp := &ReceiptItemsResponse{Items: ItemsFromDomain(r.Items)}
	if r.Mismatched {
		diff := Money(r.TotalMismatch)
		resp.TotalMismatch = &diff
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}
