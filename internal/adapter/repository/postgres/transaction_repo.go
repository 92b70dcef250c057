package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionStore on PostgreSQL.
// Every mutation locks the transaction row, compares versions, and writes its
// outbox and audit rows in the same SQL transaction.
type TransactionRepository struct {
	queries *generated.Queries
	txm     *TxManager
	retrier *Retrier
	idGen   usecase.IDGenerator
	now     func() time.Time
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, retrier *Retrier, idGen usecase.IDGenerator) *TransactionRepository {
	return newTransactionRepository(pool, retrier, idGen)
}

func newTransactionRepository(pool pgxPool, retrier *Retrier, idGen usecase.IDGenerator) *TransactionRepository {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &TransactionRepository{
		queries: generated.New(pool),
		txm:     newTxManagerWithPool(pool),
		retrier: retrier,
		idGen:   idGen,
		now:     time.Now,
	}
}

// Create inserts t with version 1.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	now := r.now().UTC()
	created := t.Clone()
	created.Version = 1
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = created.CreatedAt
	created.ReconcileSettledAt(now)

	err := r.inTx(ctx, "create", func(tx *Tx) error {
		q := tx.Queries()

		_, err := q.CreateTransaction(ctx, generated.CreateTransactionParams{
			ID:          created.ID,
			GroupID:     stringPtrToText(created.GroupID),
			Description: created.Description,
			PayerID:     created.PayerID,
			SplitMethod: string(created.SplitMethod),
			Amount:      decimalToNumeric(created.Amount),
			Version:     created.Version,
			SettledAt:   timePtrToPgTimestamptz(created.SettledAt),
			CreatedAt:   timeToPgTimestamptz(created.CreatedAt),
			UpdatedAt:   timeToPgTimestamptz(created.UpdatedAt),
		})
		if err != nil {
			return err
		}

		if err := insertChildren(ctx, q, created); err != nil {
			return err
		}

		event := domain.NewTransactionEvent(r.idGen.Generate(), domain.EventTypeTransactionCreated, created, now)
		if err := createOutboxEvent(ctx, tx, event); err != nil {
			return err
		}

		return r.audit(ctx, tx, domain.AuditActionTransactionCreate, created.PayerID, created.ID, nil, created, now)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get returns the transaction with its participants and items.
func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}
		return nil, mapError(ctx, err)
	}

	txs, err := assemble(ctx, r.queries, []generated.Transaction{row})
	if err != nil {
		return nil, mapError(ctx, err)
	}

	return txs[0], nil
}

// Update replaces the stored transaction wholesale.
func (r *TransactionRepository) Update(ctx context.Context, t *domain.Transaction, expectedVersion int64) (*domain.Transaction, error) {
	var updated *domain.Transaction

	err := r.inTx(ctx, "update", func(tx *Tx) error {
		q := tx.Queries()
		now := r.now().UTC()

		current, err := lockTransaction(ctx, q, t.ID, expectedVersion)
		if err != nil {
			return err
		}

		next := t.Clone()
		next.CreatedAt = current.CreatedAt
		next.ReconcileSettledAt(now)

		if err := q.DeleteParticipantsByTransaction(ctx, next.ID); err != nil {
			return err
		}
		if err := q.DeleteItemsByTransaction(ctx, next.ID); err != nil {
			return err
		}
		if err := insertChildren(ctx, q, next); err != nil {
			return err
		}

		row, err := q.UpdateTransaction(ctx, generated.UpdateTransactionParams{
			ID:          next.ID,
			GroupID:     stringPtrToText(next.GroupID),
			Description: next.Description,
			PayerID:     next.PayerID,
			SplitMethod: string(next.SplitMethod),
			Amount:      decimalToNumeric(next.Amount),
			SettledAt:   timePtrToPgTimestamptz(next.SettledAt),
			UpdatedAt:   timeToPgTimestamptz(now),
			Version:     expectedVersion,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrVersionMismatch
			}
			return err
		}
		next.Version = row.Version
		next.UpdatedAt = row.UpdatedAt.Time

		event := domain.NewTransactionEvent(r.idGen.Generate(), domain.EventTypeTransactionUpdated, next, now)
		if err := createOutboxEvent(ctx, tx, event); err != nil {
			return err
		}

		if err := r.audit(ctx, tx, domain.AuditActionTransactionUpdate, next.PayerID, next.ID, current, next, now); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the transaction, its participants and items.
func (r *TransactionRepository) Delete(ctx context.Context, id string, expectedVersion int64) error {
	return r.inTx(ctx, "delete", func(tx *Tx) error {
		q := tx.Queries()
		now := r.now().UTC()

		current, err := lockTransaction(ctx, q, id, expectedVersion)
		if err != nil {
			return err
		}

		affected, err := q.DeleteTransaction(ctx, generated.DeleteTransactionParams{ID: id, Version: expectedVersion})
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrVersionMismatch
		}

		event := domain.NewTransactionEvent(r.idGen.Generate(), domain.EventTypeTransactionDeleted, current, now)
		if err := createOutboxEvent(ctx, tx, event); err != nil {
			return err
		}

		return r.audit(ctx, tx, domain.AuditActionTransactionDelete, current.PayerID, id, current, nil, now)
	})
}

// ListForUser returns transactions userID pays for or participates in.
func (r *TransactionRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsForUser(ctx, generated.ListTransactionsForUserParams{
		UserID: userID,
		Limit:  int32(limit),
		Offset: int32(max(offset, 0)),
	})
	if err != nil {
		return nil, mapError(ctx, err)
	}

	txs, err := assemble(ctx, r.queries, rows)
	return txs, mapError(ctx, err)
}

// ListForGroup returns the transactions recorded in groupID.
func (r *TransactionRepository) ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsForGroup(ctx, generated.ListTransactionsForGroupParams{
		GroupID: pgtype.Text{String: groupID, Valid: true},
		Limit:   int32(limit),
		Offset:  int32(max(offset, 0)),
	})
	if err != nil {
		return nil, mapError(ctx, err)
	}

	txs, err := assemble(ctx, r.queries, rows)
	return txs, mapError(ctx, err)
}

// Settle marks cmd.UserIDs paid as one atomic step.
func (r *TransactionRepository) Settle(ctx context.Context, cmd domain.SettleCommand) (*domain.Transaction, error) {
	var settled *domain.Transaction

	err := r.inTx(ctx, "settle", func(tx *Tx) error {
		q := tx.Queries()
		at := cmd.At
		if at.IsZero() {
			at = r.now()
		}
		at = at.UTC()

		current, err := lockTransaction(ctx, q, cmd.TransactionID, cmd.ExpectedVersion)
		if err != nil {
			return err
		}

		next := current.Clone()
		changed, err := next.MarkPaid(cmd.UserIDs, cmd.PaymentMethodRef, at)
		if err != nil {
			return err
		}

		for _, userID := range changed {
			p, _ := next.Participant(userID)
			err := q.MarkParticipantPaid(ctx, generated.MarkParticipantPaidParams{
				TransactionID:    next.ID,
				UserID:           userID,
				PaidAt:           timePtrToPgTimestamptz(p.PaidAt),
				PaymentMethodRef: stringPtrToText(p.PaymentMethodRef),
			})
			if err != nil {
				return err
			}
		}

		row, err := q.UpdateTransaction(ctx, generated.UpdateTransactionParams{
			ID:          next.ID,
			GroupID:     stringPtrToText(next.GroupID),
			Description: next.Description,
			PayerID:     next.PayerID,
			SplitMethod: string(next.SplitMethod),
			Amount:      decimalToNumeric(next.Amount),
			SettledAt:   timePtrToPgTimestamptz(next.SettledAt),
			UpdatedAt:   timeToPgTimestamptz(at),
			Version:     cmd.ExpectedVersion,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrVersionMismatch
			}
			return err
		}
		next.Version = row.Version
		next.UpdatedAt = row.UpdatedAt.Time

		for _, userID := range changed {
			p, _ := next.Participant(userID)
			if err := createOutboxEvent(ctx, tx, domain.NewParticipantPaidEvent(r.idGen.Generate(), next, p, at)); err != nil {
				return err
			}
		}

		action := domain.AuditActionParticipantPaid
		if current.Status() == domain.StatusOpen && next.Status() == domain.StatusSettled {
			action = domain.AuditActionTransactionSettle
			event := domain.NewTransactionEvent(r.idGen.Generate(), domain.EventTypeTransactionSettled, next, at)
			if err := createOutboxEvent(ctx, tx, event); err != nil {
				return err
			}
		}

		actor := cmd.ActorID
		if actor == "" {
			actor = next.PayerID
		}
		if err := r.audit(ctx, tx, action, actor, next.ID, current, next, at); err != nil {
			return err
		}

		settled = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return settled, nil
}

// inTx runs fn in a retried SQL transaction and maps the final error.
func (r *TransactionRepository) inTx(ctx context.Context, name string, fn func(tx *Tx) error) error {
	err := r.retrier.Retry(ctx, name, func() error {
		return r.txm.WithTx(ctx, fn)
	})
	return mapError(ctx, err)
}

func (r *TransactionRepository) audit(ctx context.Context, tx *Tx, action domain.AuditAction, fallbackActor, id string, before, after *domain.Transaction, at time.Time) error {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		actor = fallbackActor
	}

	entry := domain.NewAuditLog(r.idGen.Generate(), actor, action, domain.AggregateTypeTransaction, id, before, after, at)
	return createAuditLog(ctx, tx.PgxTx(), entry)
}

// lockTransaction loads id FOR UPDATE and checks its version.
func lockTransaction(ctx context.Context, q *generated.Queries, id string, expectedVersion int64) (*domain.Transaction, error) {
	row, err := q.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
		}
		return nil, err
	}

	if row.Version != expectedVersion {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", domain.ErrVersionMismatch, expectedVersion, row.Version)
	}

	txs, err := assemble(ctx, q, []generated.Transaction{row})
	if err != nil {
		return nil, err
	}

	return txs[0], nil
}

func insertChildren(ctx context.Context, q *generated.Queries, t *domain.Transaction) error {
	for i, p := range t.Participants {
		err := q.CreateParticipant(ctx, generated.CreateParticipantParams{
			TransactionID:    t.ID,
			UserID:           p.UserID,
			Position:         int32(i),
			ShareAmount:      decimalToNumeric(p.ShareAmount),
			Paid:             p.Paid,
			PaidAt:           timePtrToPgTimestamptz(p.PaidAt),
			PaymentMethodRef: stringPtrToText(p.PaymentMethodRef),
		})
		if err != nil {
			return err
		}
	}

	for i, item := range t.Items {
		assigned := item.AssignedUserIDs
		if assigned == nil {
			assigned = []string{}
		}
		err := q.CreateItem(ctx, generated.CreateItemParams{
			TransactionID:   t.ID,
			Position:        int32(i),
			Name:            item.Name,
			UnitPrice:       decimalToNumeric(item.UnitPrice),
			Quantity:        int32(item.Quantity),
			AssignedUserIds: assigned,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// assemble loads participants and items for rows in two queries and keeps
// the row order.
func assemble(ctx context.Context, q *generated.Queries, rows []generated.Transaction) ([]*domain.Transaction, error) {
	if len(rows) == 0 {
		return []*domain.Transaction{}, nil
	}

	ids := make([]string, len(rows))
	byID := make(map[string]*domain.Transaction, len(rows))
	txs := make([]*domain.Transaction, len(rows))
	for i, row := range rows {
		t := rowToTransaction(row)
		ids[i] = row.ID
		byID[row.ID] = t
		txs[i] = t
	}

	participants, err := q.ListParticipantsByTransactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		t := byID[p.TransactionID]
		t.Participants = append(t.Participants, domain.Participant{
			UserID:           p.UserID,
			ShareAmount:      numericToDecimal(p.ShareAmount),
			Paid:             p.Paid,
			PaidAt:           pgTimestamptzToTimePtr(p.PaidAt),
			PaymentMethodRef: textToStringPtr(p.PaymentMethodRef),
		})
	}

	items, err := q.ListItemsByTransactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		t := byID[item.TransactionID]
		t.Items = append(t.Items, domain.Item{
			Name:            item.Name,
			UnitPrice:       numericToDecimal(item.UnitPrice),
			Quantity:        int(item.Quantity),
			AssignedUserIDs: item.AssignedUserIds,
		})
	}

	// A stored settled_at that disagrees with the participants loses.
	for _, t := range txs {
		t.ReconcileSettledAt(t.UpdatedAt)
	}

	return txs, nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          row.ID,
		GroupID:     textToStringPtr(row.GroupID),
		Description: row.Description,
		PayerID:     row.PayerID,
		SplitMethod: domain.SplitMethod(row.SplitMethod),
		Amount:      numericToDecimal(row.Amount),
		Version:     row.Version,
		SettledAt:   pgTimestamptzToTimePtr(row.SettledAt),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
