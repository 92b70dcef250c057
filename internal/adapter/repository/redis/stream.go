package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/splitledger/internal/domain"
)

// DefaultStreamMaxLen caps the event stream; trimming is approximate.
const DefaultStreamMaxLen = 100000

// StreamPublisher appends outbox events to a Redis stream.
type StreamPublisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

// NewStreamPublisher creates a publisher writing to stream.
func NewStreamPublisher(client redis.UniversalClient, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: DefaultStreamMaxLen,
	}
}

// Publish adds event as one stream entry.
func (p *StreamPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event_id":       event.ID,
			"event_type":     event.EventType,
			"aggregate_type": event.AggregateType,
			"aggregate_id":   event.AggregateID,
			"created_at":     event.CreatedAt.UTC().Format(time.RFC3339Nano),
			"payload":        string(payload),
		},
	}).Err()
}
