package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeParticipantPaid}},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	ep.metrics = m

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues(domain.EventTypeParticipantPaid)); got != 1 {
		t.Fatalf("expected one published event recorded, got %v", got)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: "type"},
			{ID: "evt-2", EventType: "type"},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
}

func TestProcessEventsReturnsFetchError(t *testing.T) {
	repo := &stubOutboxRepo{fetchErr: domain.ErrNetwork}
	ep := newTestPublisher(repo, &stubPublisher{})

	if err := ep.processEvents(context.Background()); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestPurgeDeletesOldPublishedEvents(t *testing.T) {
	repo := &stubOutboxRepo{}
	ep := newTestPublisher(repo, &stubPublisher{})
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return now }
	ep.retention = 24 * time.Hour

	if err := ep.purge(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if len(repo.purgedBefore) != 1 || !repo.purgedBefore[0].Equal(now.Add(-24*time.Hour)) {
		t.Fatalf("expected one purge before %s, got %v", now.Add(-24*time.Hour), repo.purgedBefore)
	}

	// Within the purge interval nothing happens.
	now = now.Add(10 * time.Minute)
	if err := ep.purge(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if len(repo.purgedBefore) != 1 {
		t.Fatalf("expected purge to be throttled, got %d calls", len(repo.purgedBefore))
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	pub := NewLogPublisher(&logger)

	err := pub.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-9",
		EventType: domain.EventTypeTransactionSettled,
		Payload:   map[string]any{"transaction_id": "tx-1"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"event_id":"evt-9"`) || !strings.Contains(out, `"transaction_id":"tx-1"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	logger := zerolog.New(io.Discard)
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     &logger,
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events       []*domain.OutboxEvent
	marked       []string
	purgedBefore []time.Time
	fetchErr     error
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	s.purgedBefore = append(s.purgedBefore, before)
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}
