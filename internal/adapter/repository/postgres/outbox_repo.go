package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// OutboxRepository reads and retires the events the transaction store
// writes alongside each state change. It implements usecase.OutboxRepository.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return newOutboxRepository(pool)
}

func newOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// createOutboxEvent must run inside the store transaction that made the change.
func createOutboxEvent(ctx context.Context, tx *Tx, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	params := generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
		Published:     event.Published,
	}
	_, err = tx.Queries().CreateOutboxEvent(ctx, params)
	return err
}

// GetUnpublished retrieves unpublished events in write order.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.GetUnpublishedEvents(ctx, int32(limit))
	return outboxEvents(ctx, rows, err)
}

// MarkPublished records that an event reached the sink.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return mapError(ctx, r.queries.MarkEventPublished(ctx, generated.MarkEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	}))
}

// GetByAggregate pages through the events of one aggregate, oldest first.
func (r *OutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	rows, err := r.queries.GetEventsByAggregate(ctx, generated.GetEventsByAggregateParams{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Limit:         int32(limit),
		Offset:        int32(offset),
	})
	return outboxEvents(ctx, rows, err)
}

// TransactionEvents lists the events recorded for one transaction.
func (r *OutboxRepository) TransactionEvents(ctx context.Context, transactionID string, limit int) ([]*domain.OutboxEvent, error) {
	return r.GetByAggregate(ctx, domain.AggregateTypeTransaction, transactionID, limit, 0)
}

// DeletePublished drops published events older than before.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return mapError(ctx, r.queries.DeletePublishedEvents(ctx, timeToPgTimestamptz(before)))
}

func outboxEvents(ctx context.Context, rows []generated.OutboxEvent, err error) ([]*domain.OutboxEvent, error) {
	if err != nil {
		return nil, mapError(ctx, err)
	}
	events := make([]*domain.OutboxEvent, len(rows))
	for i, row := range rows {
		events[i] = rowToOutboxEvent(row)
	}
	return events, nil
}

func rowToOutboxEvent(row generated.OutboxEvent) *domain.OutboxEvent {
	event := &domain.OutboxEvent{
		ID:            row.ID,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		EventType:     row.EventType,
		CreatedAt:     row.CreatedAt.Time,
		PublishedAt:   pgTimestamptzToTimePtr(row.PublishedAt),
		Published:     row.Published,
	}
	if len(row.Payload) > 0 {
		// A payload we wrote ourselves; a decode failure leaves it empty.
		_ = json.Unmarshal(row.Payload, &event.Payload)
	}
	return event
}
