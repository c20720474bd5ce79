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

type ParticipantRepo struct {
	DB DBTX
}

const createParticipant = `-- name: CreateParticipant
INSERT INTO participants (id, user_id, group_id, gift_value, role, status, code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, user_id, group_id, gift_value, role, status, code
`

func (r *ParticipantRepo) CreateParticipant(ctx context.Context, arg repository.CreateParticipantParams) (models.Participant, error) {
	rows, _ := r.DB.Query(ctx, createParticipant,
		uuid.New(), arg.UserID, arg.GroupID, arg.GiftValue, arg.Role, arg.Status, arg.Code)
	participant, err := pgx.CollectOneRow(rows, rowToParticipant)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// The (group, user) and code unique constraints surface as different errors
			switch {
			case pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "participants_group_id_user_id_key":
				return participant, apperrors.ErrParticipantAlreadyExists
			case pgErr.Code == pgerrcode.ForeignKeyViolation:
				return participant, apperrors.ErrUserNotFound
			}
		}

		return participant, fmt.Errorf("db error: %w", err)
	}

	return participant, nil
}

const getParticipantByID = `-- name: GetParticipantByID
SELECT id, created_at, user_id, group_id, gift_value, role, status, code
FROM participants
WHERE id = $1
`

func (r *ParticipantRepo) GetParticipantByID(ctx context.Context, participantID uuid.UUID) (models.Participant, error) {
	rows, _ := r.DB.Query(ctx, getParticipantByID, participantID)
	participant, err := pgx.CollectOneRow(rows, rowToParticipant)

	switch {
	case err == nil:
		return participant, nil
	case errors.Is(err, pgx.ErrNoRows):
		return participant, apperrors.ErrParticipantNotFound
	default:
		return participant, fmt.Errorf("db error: %w", err)
	}
}

const getParticipantByGroupAndUser = `-- name: GetParticipantByGroupAndUser
SELECT id, created_at, user_id, group_id, gift_value, role, status, code
FROM participants
WHERE group_id = $1 AND user_id = $2
`

func (r *ParticipantRepo) GetParticipantByGroupAndUser(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (models.Participant, error) {
	rows, _ := r.DB.Query(ctx, getParticipantByGroupAndUser, groupID, userID)
	participant, err := pgx.CollectOneRow(rows, rowToParticipant)

	switch {
	case err == nil:
		return participant, nil
	case errors.Is(err, pgx.ErrNoRows):
		return participant, apperrors.ErrParticipantNotFound
	default:
		return participant, fmt.Errorf("db error: %w", err)
	}
}

const listParticipants = `-- name: ListParticipants
SELECT id, created_at, user_id, group_id, gift_value, role, status, code
FROM participants
WHERE group_id = COALESCE($1, group_id)
ORDER BY created_at
`

func (r *ParticipantRepo) ListParticipants(ctx context.Context, groupID *uuid.UUID) ([]models.Participant, error) {
	rows, _ := r.DB.Query(ctx, listParticipants, groupID)
	participants, err := pgx.CollectRows(rows, rowToParticipant)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return participants, nil
}

const updateParticipant = `-- name: UpdateParticipant
UPDATE participants
SET gift_value = COALESCE($2, gift_value),
    role       = COALESCE($3, role),
    status     = COALESCE($4, status)
WHERE id = $1
RETURNING id, created_at, user_id, group_id, gift_value, role, status, code
`

func (r *ParticipantRepo) UpdateParticipant(ctx context.Context, participantID uuid.UUID, arg repository.UpdateParticipantParams) (models.Participant, error) {
	rows, _ := r.DB.Query(ctx, updateParticipant, participantID, arg.GiftValue, arg.Role, arg.Status)
	participant, err := pgx.CollectOneRow(rows, rowToParticipant)

	switch {
	case err == nil:
		return participant, nil
	case errors.Is(err, pgx.ErrNoRows):
		return participant, apperrors.ErrParticipantNotFound
	default:
		return participant, fmt.Errorf("db error: %w", err)
	}
}

const codeExists = `-- name: CodeExists
SELECT EXISTS (SELECT 1 FROM participants WHERE code = $1)
`

func (r *ParticipantRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	rows, _ := r.DB.Query(ctx, codeExists, code)
	exists, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

func rowToParticipant(row pgx.CollectableRow) (models.Participant, error) {
	var p models.Participant
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UserID, &p.GroupID, &p.GiftValue, &p.Role, &p.Status, &p.Code)
	return p, err
}
