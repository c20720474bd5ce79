package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
)

type GroupRepo struct {
	DB DBTX
}

const createGroup = `-- name: CreateGroup
INSERT INTO groups (id, name, owner_id)
VALUES ($1, $2, $3)
RETURNING id, created_at, name, owner_id
`

func (r *GroupRepo) CreateGroup(ctx context.Context, name string, ownerID uuid.UUID) (models.Group, error) {
	rows, _ := r.DB.Query(ctx, createGroup, uuid.New(), name, ownerID)
	group, err := pgx.CollectOneRow(rows, rowToGroup)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return group, apperrors.ErrUserNotFound
		}

		return group, fmt.Errorf("db error: %w", err)
	}

	return group, nil
}

const getGroupByID = `-- name: GetGroupByID
SELECT id, created_at, name, owner_id
FROM groups
WHERE id = $1
`

func (r *GroupRepo) GetGroupByID(ctx context.Context, groupID uuid.UUID) (models.Group, error) {
	rows, _ := r.DB.Query(ctx, getGroupByID, groupID)
	group, err := pgx.CollectOneRow(rows, rowToGroup)

	switch {
	case err == nil:
		return group, nil
	case errors.Is(err, pgx.ErrNoRows):
		return group, apperrors.ErrGroupNotFound
	default:
		return group, fmt.Errorf("db error: %w", err)
	}
}

const listGroups = `-- name: ListGroups
SELECT id, created_at, name, owner_id
FROM groups
ORDER BY created_at
`

func (r *GroupRepo) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, _ := r.DB.Query(ctx, listGroups)
	groups, err := pgx.CollectRows(rows, rowToGroup)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return groups, nil
}

const updateGroup = `-- name: UpdateGroup
UPDATE groups
SET name     = COALESCE($2, name),
    owner_id = COALESCE($3, owner_id)
WHERE id = $1
RETURNING id, created_at, name, owner_id
`

func (r *GroupRepo) UpdateGroup(ctx context.Context, groupID uuid.UUID, arg repository.UpdateGroupParams) (models.Group, error) {
	rows, _ := r.DB.Query(ctx, updateGroup, groupID, arg.Name, arg.OwnerID)
	group, err := pgx.CollectOneRow(rows, rowToGroup)

	switch {
	case err == nil:
		return group, nil
	case errors.Is(err, pgx.ErrNoRows):
		return group, apperrors.ErrGroupNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return group, apperrors.ErrUserNotFound
		}

		return group, fmt.Errorf("db error: %w", err)
	}
}

func rowToGroup(row pgx.CollectableRow) (models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.CreatedAt, &g.Name, &g.OwnerID)
	return g, err
}
