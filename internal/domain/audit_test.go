package domain

import (
	"testing"
	"time"
)

func TestNewAuditLogSnapshotsStates(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var deleted *Transaction
	group := &Group{ID: "g1", Name: "flat", Members: []string{"alice", "bob"}}

	entry := NewAuditLog("a1", "alice", AuditActionGroupCreate, AggregateTypeGroup, "g1", deleted, group, at)

	if entry.BeforeState != nil {
		t.Fatalf("expected nil before state for a nil pointer, got %v", entry.BeforeState)
	}
	if len(entry.AfterState) == 0 {
		t.Fatal("expected after state snapshot")
	}
	if entry.Action != "group.create" || entry.Status != string(AuditStatusSuccess) || !entry.CreatedAt.Equal(at) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestMarshalStateNonObject(t *testing.T) {
	if got := MarshalState(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	got := MarshalState([]string{"alice"})
	if _, ok := got["value"]; !ok {
		t.Fatalf("expected raw value for a non-object, got %v", got)
	}
}
