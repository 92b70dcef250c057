package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createGroup = `-- name: CreateGroup :one
INSERT INTO groups (id, name, created_at)
VALUES ($1, $2, $3)
RETURNING id, name, created_at
`

type CreateGroupParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateGroup(ctx context.Context, arg CreateGroupParams) (Group, error) {
	row := q.db.QueryRow(ctx, createGroup,
		arg.ID,
		arg.Name,
		arg.CreatedAt,
	)
	var i Group
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const getGroupByID = `-- name: GetGroupByID :one
SELECT id, name, created_at FROM groups WHERE id = $1
`

func (q *Queries) GetGroupByID(ctx context.Context, id string) (Group, error) {
	row := q.db.QueryRow(ctx, getGroupByID, id)
	var i Group
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
	)
	return i, err
}

const addGroupMember = `-- name: AddGroupMember :execrows
INSERT INTO group_members (group_id, user_id, position, added_at)
SELECT $1, $2, COALESCE(MAX(position) + 1, 0), $3 FROM group_members WHERE group_id = $1
ON CONFLICT (group_id, user_id) DO NOTHING
`

type AddGroupMemberParams struct {
	GroupID string             `json:"group_id"`
	UserID  string             `json:"user_id"`
	AddedAt pgtype.Timestamptz `json:"added_at"`
}

func (q *Queries) AddGroupMember(ctx context.Context, arg AddGroupMemberParams) (int64, error) {
	result, err := q.db.Exec(ctx, addGroupMember,
		arg.GroupID,
		arg.UserID,
		arg.AddedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listGroupMembers = `-- name: ListGroupMembers :many
SELECT group_id, user_id, position, added_at FROM group_members WHERE group_id = $1 ORDER BY position
`

func (q *Queries) ListGroupMembers(ctx context.Context, groupID string) ([]GroupMember, error) {
	rows, err := q.db.Query(ctx, listGroupMembers, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GroupMember{}
	for rows.Next() {
		var i GroupMember
		if err := rows.Scan(
			&i.GroupID,
			&i.UserID,
			&i.Position,
			&i.AddedAt,
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
