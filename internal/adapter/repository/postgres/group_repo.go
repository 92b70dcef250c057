package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// GroupRepository implements usecase.GroupRepository.
type GroupRepository struct {
	queries *generated.Queries
	txm     *TxManager
	idGen   usecase.IDGenerator
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *GroupRepository {
	return &GroupRepository{
		queries: generated.New(pool),
		txm:     newTxManagerWithPool(pool),
		idGen:   idGen,
	}
}

// Create inserts the group and its members, with a group.created event.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	err := r.txm.WithTx(ctx, func(tx *Tx) error {
		q := tx.Queries()

		if _, err := q.CreateGroup(ctx, generated.CreateGroupParams{
			ID:        group.ID,
			Name:      group.Name,
			CreatedAt: timeToPgTimestamptz(group.CreatedAt),
		}); err != nil {
			return err
		}

		for _, member := range group.Members {
			if _, err := q.AddGroupMember(ctx, generated.AddGroupMemberParams{
				GroupID: group.ID,
				UserID:  member,
				AddedAt: timeToPgTimestamptz(group.CreatedAt),
			}); err != nil {
				return err
			}
		}

		event := &domain.OutboxEvent{
			ID:            r.idGen.Generate(),
			AggregateID:   group.ID,
			AggregateType: domain.AggregateTypeGroup,
			EventType:     domain.EventTypeGroupCreated,
			Payload: map[string]any{
				"group_id": group.ID,
				"name":     group.Name,
				"members":  group.Members,
			},
			CreatedAt: group.CreatedAt,
		}
		if err := createOutboxEvent(ctx, tx, event); err != nil {
			return err
		}

		actor, ok := domain.ActorFromContext(ctx)
		if !ok && len(group.Members) > 0 {
			actor = group.Members[0]
		}
		entry := domain.NewAuditLog(r.idGen.Generate(), actor, domain.AuditActionGroupCreate,
			domain.AggregateTypeGroup, group.ID, nil, group, group.CreatedAt)
		return createAuditLog(ctx, tx.PgxTx(), entry)
	})

	return mapError(ctx, err)
}

// Get retrieves a group with its members in the order they joined.
func (r *GroupRepository) Get(ctx context.Context, id string) (*domain.Group, error) {
	row, err := r.queries.GetGroupByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrGroupNotFound, id)
	}
	if err != nil {
		return nil, mapError(ctx, err)
	}

	members, err := r.queries.ListGroupMembers(ctx, id)
	if err != nil {
		return nil, mapError(ctx, err)
	}

	group := &domain.Group{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
		Members:   make([]string, 0, len(members)),
	}
	for _, m := range members {
		group.Members = append(group.Members, m.UserID)
	}

	return group, nil
}

// AddMember adds userID to the group. Adding an existing member is a no-op.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := r.queries.AddGroupMember(ctx, generated.AddGroupMemberParams{
		GroupID: groupID,
		UserID:  userID,
		AddedAt: timeToPgTimestamptz(time.Now().UTC()),
	})
	return mapError(ctx, err)
}
