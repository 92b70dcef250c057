package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at
`

type CreateTransactionParams struct {
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

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, createTransaction,
		arg.ID,
		arg.GroupID,
		arg.Description,
		arg.PayerID,
		arg.SplitMethod,
		arg.Amount,
		arg.Version,
		arg.SettledAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.Description,
		&i.PayerID,
		&i.SplitMethod,
		&i.Amount,
		&i.Version,
		&i.SettledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.Description,
		&i.PayerID,
		&i.SplitMethod,
		&i.Amount,
		&i.Version,
		&i.SettledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getTransactionByIDForUpdate = `-- name: GetTransactionByIDForUpdate :one
SELECT id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at FROM transactions WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetTransactionByIDForUpdate(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByIDForUpdate, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.Description,
		&i.PayerID,
		&i.SplitMethod,
		&i.Amount,
		&i.Version,
		&i.SettledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateTransaction = `-- name: UpdateTransaction :one
UPDATE transactions
SET group_id = $2, description = $3, payer_id = $4, split_method = $5, amount = $6, settled_at = $7, updated_at = $8, version = version + 1
WHERE id = $1 AND version = $9
RETURNING id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at
`

type UpdateTransactionParams struct {
	ID          string             `json:"id"`
	GroupID     pgtype.Text        `json:"group_id"`
	Description string             `json:"description"`
	PayerID     string             `json:"payer_id"`
	SplitMethod string             `json:"split_method"`
	Amount      pgtype.Numeric     `json:"amount"`
	SettledAt   pgtype.Timestamptz `json:"settled_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
	Version     int64              `json:"version"`
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, updateTransaction,
		arg.ID,
		arg.GroupID,
		arg.Description,
		arg.PayerID,
		arg.SplitMethod,
		arg.Amount,
		arg.SettledAt,
		arg.UpdatedAt,
		arg.Version,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.GroupID,
		&i.Description,
		&i.PayerID,
		&i.SplitMethod,
		&i.Amount,
		&i.Version,
		&i.SettledAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = $1 AND version = $2
`

type DeleteTransactionParams struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransaction,
		arg.ID,
		arg.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listTransactionsForUser = `-- name: ListTransactionsForUser :many
SELECT t.id, t.group_id, t.description, t.payer_id, t.split_method, t.amount, t.version, t.settled_at, t.created_at, t.updated_at FROM transactions t
WHERE t.payer_id = $1
   OR EXISTS (SELECT 1 FROM transaction_participants p WHERE p.transaction_id = t.id AND p.user_id = $1)
ORDER BY t.created_at DESC, t.id DESC
LIMIT NULLIF($2::int, 0) OFFSET $3
`

type ListTransactionsForUserParams struct {
	UserID string `json:"user_id"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

func (q *Queries) ListTransactionsForUser(ctx context.Context, arg ListTransactionsForUserParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsForUser,
		arg.UserID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.Description,
			&i.PayerID,
			&i.SplitMethod,
			&i.Amount,
			&i.Version,
			&i.SettledAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactionsForGroup = `-- name: ListTransactionsForGroup :many
SELECT id, group_id, description, payer_id, split_method, amount, version, settled_at, created_at, updated_at FROM transactions
WHERE group_id = $1
ORDER BY created_at DESC, id DESC
LIMIT NULLIF($2::int, 0) OFFSET $3
`

type ListTransactionsForGroupParams struct {
	GroupID pgtype.Text `json:"group_id"`
	Limit   int32       `json:"limit"`
	Offset  int32       `json:"offset"`
}

func (q *Queries) ListTransactionsForGroup(ctx context.Context, arg ListTransactionsForGroupParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsForGroup,
		arg.GroupID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.Description,
			&i.PayerID,
			&i.SplitMethod,
			&i.Amount,
			&i.Version,
			&i.SettledAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createParticipant = `-- name: CreateParticipant :exec
INSERT INTO transaction_participants (transaction_id, user_id, position, share_amount, paid, paid_at, payment_method_ref)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateParticipantParams struct {
	TransactionID    string             `json:"transaction_id"`
	UserID           string             `json:"user_id"`
	Position         int32              `json:"position"`
	ShareAmount      pgtype.Numeric     `json:"share_amount"`
	Paid             bool               `json:"paid"`
	PaidAt           pgtype.Timestamptz `json:"paid_at"`
	PaymentMethodRef pgtype.Text        `json:"payment_method_ref"`
}

func (q *Queries) CreateParticipant(ctx context.Context, arg CreateParticipantParams) error {
	_, err := q.db.Exec(ctx, createParticipant,
		arg.TransactionID,
		arg.UserID,
		arg.Position,
		arg.ShareAmount,
		arg.Paid,
		arg.PaidAt,
		arg.PaymentMethodRef,
	)
	return err
}

const deleteParticipantsByTransaction = `-- name: DeleteParticipantsByTransaction :exec
DELETE FROM transaction_participants WHERE transaction_id = $1
`

func (q *Queries) DeleteParticipantsByTransaction(ctx context.Context, transactionID string) error {
	_, err := q.db.Exec(ctx, deleteParticipantsByTransaction, transactionID)
	return err
}

const listParticipantsByTransactions = `-- name: ListParticipantsByTransactions :many
SELECT transaction_id, user_id, position, share_amount, paid, paid_at, payment_method_ref FROM transaction_participants
WHERE transaction_id = ANY($1::text[])
ORDER BY transaction_id, position
`

func (q *Queries) ListParticipantsByTransactions(ctx context.Context, dollar_1 []string) ([]TransactionParticipant, error) {
	rows, err := q.db.Query(ctx, listParticipantsByTransactions, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionParticipant{}
	for rows.Next() {
		var i TransactionParticipant
		if err := rows.Scan(
			&i.TransactionID,
			&i.UserID,
			&i.Position,
			&i.ShareAmount,
			&i.Paid,
			&i.PaidAt,
			&i.PaymentMethodRef,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markParticipantPaid = `-- name: MarkParticipantPaid :exec
UPDATE transaction_participants
SET paid = TRUE, paid_at = $3, payment_method_ref = $4
WHERE transaction_id = $1 AND user_id = $2
`

type MarkParticipantPaidParams struct {
	TransactionID    string             `json:"transaction_id"`
	UserID           string             `json:"user_id"`
	PaidAt           pgtype.Timestamptz `json:"paid_at"`
	PaymentMethodRef pgtype.Text        `json:"payment_method_ref"`
}

func (q *Queries) MarkParticipantPaid(ctx context.Context, arg MarkParticipantPaidParams) error {
	_, err := q.db.Exec(ctx, markParticipantPaid,
		arg.TransactionID,
		arg.UserID,
		arg.PaidAt,
		arg.PaymentMethodRef,
	)
	return err
}

const createItem = `-- name: CreateItem :exec
INSERT INTO transaction_items (transaction_id, position, name, unit_price, quantity, assigned_user_ids)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateItemParams struct {
	TransactionID   string         `json:"transaction_id"`
	Position        int32          `json:"position"`
	Name            string         `json:"name"`
	UnitPrice       pgtype.Numeric `json:"unit_price"`
	Quantity        int32          `json:"quantity"`
	AssignedUserIds []string       `json:"assigned_user_ids"`
}

func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) error {
	_, err := q.db.Exec(ctx, createItem,
		arg.TransactionID,
		arg.Position,
		arg.Name,
		arg.UnitPrice,
		arg.Quantity,
		arg.AssignedUserIds,
	)
	return err
}

const deleteItemsByTransaction = `-- name: DeleteItemsByTransaction :exec
DELETE FROM transaction_items WHERE transaction_id = $1
`

func (q *Queries) DeleteItemsByTransaction(ctx context.Context, transactionID string) error {
	_, err := q.db.Exec(ctx, deleteItemsByTransaction, transactionID)
	return err
}

const listItemsByTransactions = `-- name: ListItemsByTransactions :many
SELECT transaction_id, position, name, unit_price, quantity, assigned_user_ids FROM transaction_items
WHERE transaction_id = ANY($1::text[])
ORDER BY transaction_id, position
`

func (q *Queries) ListItemsByTransactions(ctx context.Context, dollar_1 []string) ([]TransactionItem, error) {
	rows, err := q.db.Query(ctx, listItemsByTransactions, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []TransactionItem{}
	for rows.Next() {
		var i TransactionItem
		if err := rows.Scan(
			&i.TransactionID,
			&i.Position,
			&i.Name,
			&i.UnitPrice,
			&i.Quantity,
			&i.AssignedUserIds,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listShareMismatches = `-- name: ListShareMismatches :many
SELECT t.id, t.amount, COALESCE(SUM(p.share_amount), 0)::NUMERIC(20, 2) AS share_sum
FROM transactions t
LEFT JOIN transaction_participants p ON p.transaction_id = t.id
GROUP BY t.id, t.amount
HAVING COALESCE(SUM(p.share_amount), 0) <> t.amount
ORDER BY t.id
`

type ListShareMismatchesRow struct {
	ID       string         `json:"id"`
	Amount   pgtype.Numeric `json:"amount"`
	ShareSum pgtype.Numeric `json:"share_sum"`
}

func (q *Queries) ListShareMismatches(ctx context.Context) ([]ListShareMismatchesRow, error) {
	rows, err := q.db.Query(ctx, listShareMismatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListShareMismatchesRow{}
	for rows.Next() {
		var i ListShareMismatchesRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.ShareSum); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
