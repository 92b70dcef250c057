package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Group struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type GroupMember struct {
	GroupID  string             `json:"group_id"`
	UserID   string             `json:"user_id"`
	Position int32              `json:"position"`
	AddedAt  pgtype.Timestamptz `json:"added_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Transaction struct {
	ID          string             `json:"id"`
	GroupID     pgtype.Text        `json:"group_id"`
	Description string             `json:"description"`
	PayerID     string             `json:"payer_id"`
	SplitMethod string             `json:"split_method"`
	Amount      pgtype.Numeric     `json:"amount"`
	Version     int64              `json:"version"`
	SettledAt   pgtype.Timestamptz `json:"settled_at"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type TransactionItem struct {
	TransactionID   string         `json:"transaction_id"`
	Position        int32          `json:"position"`
	Name            string         `json:"name"`
	UnitPrice       pgtype.Numeric `json:"unit_price"`
	Quantity        int32          `json:"quantity"`
	AssignedUserIds []string       `json:"assigned_user_ids"`
}

type TransactionParticipant struct {
	TransactionID    string             `json:"transaction_id"`
	UserID           string             `json:"user_id"`
	Position         int32              `json:"position"`
	ShareAmount      pgtype.Numeric     `json:"share_amount"`
	Paid             bool               `json:"paid"`
	PaidAt           pgtype.Timestamptz `json:"paid_at"`
	PaymentMethodRef pgtype.Text        `json:"payment_method_ref"`
}

type User struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
