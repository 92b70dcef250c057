package storeclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// userRef accepts a user reference as a bare string or as an embedded
// object carrying "_id" or "id".
type userRef string

func (u *userRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = userRef(s)
		return nil
	}

	var obj struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("user reference: %w", err)
	}
	if obj.MongoID != "" {
		*u = userRef(obj.MongoID)
	} else {
		*u = userRef(obj.ID)
	}
	return nil
}

type wireParticipant struct {
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	PaymentMethodRef *string         `json:"payment_method_ref,omitempty"`
	User             userRef         `json:"user,omitempty"`
	UserID           string          `json:"user_id"`
	ShareAmount      decimal.Decimal `json:"share_amount"`
	Paid             bool            `json:"paid"`
}

type wireItem struct {
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	AssignedUserIDs []string        `json:"assigned_user_ids,omitempty"`
}

type wireTransaction struct {
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	SettledAt    *time.Time        `json:"settled_at,omitempty"`
	GroupID      *string           `json:"group_id,omitempty"`
	MongoID      string            `json:"_id,omitempty"`
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Payer        userRef           `json:"payer,omitempty"`
	PayerID      string            `json:"payer_id,omitempty"`
	SplitMethod  string            `json:"split_method"`
	Amount       decimal.Decimal   `json:"amount"`
	Participants []wireParticipant `json:"participants"`
	Items        []wireItem        `json:"items,omitempty"`
	Version      int64             `json:"version"`
}

// toDomain normalizes a store record into the canonical transaction. It is
// the only place remote shapes are interpreted.
func (w *wireTransaction) toDomain() (*domain.Transaction, error) {
	t := &domain.Transaction{
		ID:          w.ID,
		GroupID:     w.GroupID,
		Description: w.Description,
		PayerID:     w.PayerID,
		SplitMethod: domain.SplitMethod(w.SplitMethod),
		Amount:      w.Amount,
		Version:     w.Version,
		SettledAt:   w.SettledAt,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if t.ID == "" {
		t.ID = w.MongoID
	}
	if t.PayerID == "" {
		t.PayerID = string(w.Payer)
	}
	if t.ID == "" || t.PayerID == "" {
		return nil, fmt.Errorf("store record is missing id or payer")
	}

	t.Participants = make([]domain.Participant, 0, len(w.Participants))
	for _, p := range w.Participants {
		userID := p.UserID
		if userID == "" {
			userID = string(p.User)
		}
		if userID == "" {
			return nil, fmt.Errorf("store record %s has a participant without a user", t.ID)
		}
		t.Participants = append(t.Participants, domain.Participant{
			UserID:           userID,
			ShareAmount:      p.ShareAmount,
			Paid:             p.Paid,
			PaidAt:           p.PaidAt,
			PaymentMethodRef: p.PaymentMethodRef,
		})
	}

	for _, item := range w.Items {
		t.Items = append(t.Items, domain.Item{
			Name:            item.Name,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			AssignedUserIDs: item.AssignedUserIDs,
		})
	}

	// The stored settled flag never overrides participant state.
	t.ReconcileSettledAt(t.UpdatedAt)

	return t, nil
}

func fromDomain(t *domain.Transaction) wireTransaction {
	w := wireTransaction{
		ID:          t.ID,
		GroupID:     t.GroupID,
		Description: t.Description,
		PayerID:     t.PayerID,
		SplitMethod: string(t.SplitMethod),
		Amount:      t.Amount,
		Version:     t.Version,
		SettledAt:   t.SettledAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, p := range t.Participants {
		w.Participants = append(w.Participants, wireParticipant{
			UserID:           p.UserID,
			ShareAmount:      p.ShareAmount,
			Paid:             p.Paid,
			PaidAt:           p.PaidAt,
			PaymentMethodRef: p.PaymentMethodRef,
		})
	}
	for _, item := range t.Items {
		w.Items = append(w.Items, wireItem{
			Name:            item.Name,
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			AssignedUserIDs: item.AssignedUserIDs,
		})
	}
	return w
}

type updateRequest struct {
	Transaction     wireTransaction `json:"transaction"`
	ExpectedVersion int64           `json:"expected_version"`
}

type settleRequest struct {
	At               time.Time `json:"at"`
	PaymentMethodRef *string   `json:"payment_method_ref,omitempty"`
	ActorID          string    `json:"actor_id,omitempty"`
	UserIDs          []string  `json:"user_ids"`
	ExpectedVersion  int64     `json:"expected_version"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
