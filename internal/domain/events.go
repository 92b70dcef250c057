package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeParticipantPaid    = "participant.paid"
	EventTypeTransactionSettled = "transaction.settled"
	EventTypeGroupCreated       = "group.created"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeGroup       = "group"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewTransactionEvent builds an outbox event describing a transaction change.
func NewTransactionEvent(id, eventType string, t *Transaction, at time.Time) *OutboxEvent {
	payload := map[string]any{
		"transaction_id": t.ID,
		"payer_id":       t.PayerID,
		"amount":         t.Amount.StringFixed(MoneyScale),
		"status":         string(t.Status()),
		"version":        t.Version,
		"parties":        t.Parties(),
	}
	if t.GroupID != nil {
		payload["group_id"] = *t.GroupID
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   t.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     at,
	}
}

// NewParticipantPaidEvent builds the outbox event for one settled share.
func NewParticipantPaidEvent(id string, t *Transaction, p *Participant, at time.Time) *OutboxEvent {
	payload := map[string]any{
		"transaction_id": t.ID,
		"user_id":        p.UserID,
		"payer_id":       t.PayerID,
		"amount":         p.ShareAmount.StringFixed(MoneyScale),
	}
	if p.PaymentMethodRef != nil {
		payload["payment_method_ref"] = *p.PaymentMethodRef
	}

	return &OutboxEvent{
		ID:            id,
		AggregateID:   t.ID,
		AggregateType: AggregateTypeTransaction,
		EventType:     EventTypeParticipantPaid,
		Payload:       payload,
		CreatedAt:     at,
	}
}
