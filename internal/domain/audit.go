package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is one row of the audit trail. The store writes it in the same
// SQL transaction as the change it describes.
type AuditLog struct {
	ID           string
	UserID       string // actor
	Action       string
	ResourceType string // AggregateTypeTransaction or AggregateTypeGroup
	ResourceID   string
	RequestID    string
	BeforeState  JSON // nil on create
	AfterState   JSON // nil on delete
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a decoded JSON object.
type JSON map[string]any

// AuditAction names an audited change.
type AuditAction string

const (
	AuditActionTransactionCreate AuditAction = "transaction.create"
	AuditActionTransactionUpdate AuditAction = "transaction.update"
	AuditActionTransactionDelete AuditAction = "transaction.delete"
	AuditActionParticipantPaid   AuditAction = "transaction.participant_paid"
	AuditActionTransactionSettle AuditAction = "transaction.settle"
	AuditActionGroupCreate       AuditAction = "group.create"
)

// AuditStatus is the outcome recorded with an entry.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// NewAuditLog builds a successful entry. before and after may be nil
// pointers; they are snapshotted through their JSON form.
func NewAuditLog(id, actor string, action AuditAction, resourceType, resourceID string, before, after any, at time.Time) *AuditLog {
	return &AuditLog{
		ID:           id,
		UserID:       actor,
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeState:  MarshalState(before),
		AfterState:   MarshalState(after),
		Status:       string(AuditStatusSuccess),
		CreatedAt:    at,
	}
}

// MarshalState snapshots v as a JSON object. A nil value, including a typed
// nil pointer, yields nil.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}
	var state JSON
	if err := json.Unmarshal(data, &state); err != nil {
		// Not an object; keep the raw value under one key.
		return JSON{"value": json.RawMessage(data)}
	}
	return state
}

// AuditFilter narrows an audit log query. Zero fields match everything.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
