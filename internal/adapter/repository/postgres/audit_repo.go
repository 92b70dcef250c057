package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// AuditRepository implements usecase.AuditRepository. Rows are written by
// the transaction store inside its own SQL transactions.
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: pool}
}

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_id, action, resource_type, resource_id, request_id,
		before_state, after_state, status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11)
`

// createAuditLog inserts an audit entry through db, normally a *Tx.
func createAuditLog(ctx context.Context, db generated.DBTX, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = ulid.Make().String()
	}

	var beforeStateJSON, afterStateJSON []byte
	var err error

	if log.BeforeState != nil {
		beforeStateJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}

	if log.AfterState != nil {
		afterStateJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	_, err = db.Exec(ctx, insertAuditLog,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeStateJSON,
		afterStateJSON,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs with filtering, oldest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, user_id, action, resource_type, resource_id,
		       COALESCE(request_id, ''), before_state, after_state,
		       status, COALESCE(error_message, ''), created_at
		FROM audit_logs
		WHERE 1=1`)

	args := []any{}
	where := func(clause string, value any) {
		args = append(args, value)
		query.WriteString(" AND " + clause + " $" + strconv.Itoa(len(args)))
	}

	if filter.UserID != "" {
		where("user_id =", filter.UserID)
	}
	if filter.Action != "" {
		where("action =", filter.Action)
	}
	if filter.ResourceType != "" {
		where("resource_type =", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		where("resource_id =", filter.ResourceID)
	}
	if filter.StartDate != nil {
		where("created_at >=", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where("created_at <", *filter.EndDate)
	}

	query.WriteString(" ORDER BY created_at, id")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := r.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var beforeStateJSON, afterStateJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeStateJSON,
			&afterStateJSON,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, mapError(ctx, err)
		}

		if beforeStateJSON != nil {
			_ = json.Unmarshal(beforeStateJSON, &log.BeforeState)
		}

		if afterStateJSON != nil {
			_ = json.Unmarshal(afterStateJSON, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, mapError(ctx, rows.Err())
}

// GetByResourceID retrieves all audit logs for a specific resource
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	return r.List(ctx, domain.AuditFilter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
}
