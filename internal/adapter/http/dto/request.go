package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// ItemRequest is one receipt line of an itemized split.
type ItemRequest struct {
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	AssignedUserIDs []string        `json:"assigned_user_ids"`
}

// SplitRequest describes how a transaction's amount is divided.
type SplitRequest struct {
	GroupID        *string                    `json:"group_id,omitempty"`
	CustomAmounts  map[string]decimal.Decimal `json:"custom_amounts,omitempty"`
	Percentages    map[string]decimal.Decimal `json:"percentages,omitempty"`
	Description    string                     `json:"description"`
	PayerID        string                     `json:"payer_id"`
	SplitMethod    string                     `json:"split_method"`
	Amount         decimal.Decimal            `json:"amount"`
	ParticipantIDs []string                   `json:"participant_ids"`
	Items          []ItemRequest              `json:"items,omitempty"`
}

// ToSplitInput converts to use case input.
func (r *SplitRequest) ToSplitInput() usecase.SplitInput {
	var items []domain.Item
	for _, it := range r.Items {
		items = append(items, domain.Item{
			Name:            it.Name,
			UnitPrice:       it.UnitPrice,
			Quantity:        it.Quantity,
			AssignedUserIDs: it.AssignedUserIDs,
		})
	}
	return usecase.SplitInput{
		GroupID:        r.GroupID,
		CustomAmounts:  r.CustomAmounts,
		Percentages:    r.Percentages,
		Description:    r.Description,
		PayerID:        r.PayerID,
		Method:         domain.SplitMethod(r.SplitMethod),
		Amount:         r.Amount,
		ParticipantIDs: r.ParticipantIDs,
		Items:          items,
	}
}

// CreateTransactionRequest represents a request to record a shared expense.
type CreateTransactionRequest struct {
	SplitRequest
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{SplitInput: r.ToSplitInput()}
}

// UpdateTransactionRequest replaces a transaction wholesale.
type UpdateTransactionRequest struct {
	SplitRequest
	ExpectedVersion int64 `json:"expected_version"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(id string) usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		SplitInput:      r.ToSplitInput(),
		ID:              id,
		ExpectedVersion: r.ExpectedVersion,
	}
}

// MarkPaidRequest marks one participant's share paid. Paid defaults to true.
type MarkPaidRequest struct {
	Paid             *bool   `json:"paid,omitempty"`
	PaymentMethodRef *string `json:"payment_method_ref,omitempty"`
	ExpectedVersion  int64   `json:"expected_version"`
}

// ToUseCaseInput converts to use case input.
func (r *MarkPaidRequest) ToUseCaseInput(transactionID, userID string) usecase.MarkPaidInput {
	paid := true
	if r.Paid != nil {
		paid = *r.Paid
	}
	return usecase.MarkPaidInput{
		PaymentMethodRef: r.PaymentMethodRef,
		TransactionID:    transactionID,
		UserID:           userID,
		ExpectedVersion:  r.ExpectedVersion,
		Paid:             paid,
	}
}

// SettleRequest marks every unpaid share of a transaction paid.
type SettleRequest struct {
	ExpectedVersion int64 `json:"expected_version"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// CreateGroupRequest creates a group.
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

// AddMemberRequest adds a user to a group.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
}

// ReconcileRequest carries externally computed per-counterparty balances.
type ReconcileRequest struct {
	Balances map[string]decimal.Decimal `json:"balances"`
}

// ReceiptLine is one line of extracted receipt output.
type ReceiptLine struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ReceiptRequest is the output of the receipt extraction service.
type ReceiptRequest struct {
	Date     *time.Time      `json:"date,omitempty"`
	Merchant string          `json:"merchant"`
	Total    decimal.Decimal `json:"total"`
	Items    []ReceiptLine   `json:"items"`
}

// ToDomain converts the request to a receipt.
func (r *ReceiptRequest) ToDomain() *domain.Receipt {
	receipt := &domain.Receipt{Merchant: r.Merchant, Total: r.Total}
	if r.Date != nil {
		receipt.Date = *r.Date
	}
	for _, line := range r.Items {
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}
	return receipt
}
