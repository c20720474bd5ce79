package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
	"github.com/amiculto/backend/internal/testutil"
)

func Test_ParticipantRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// seed creates a user and a group owned by that user
	seed := func(t *testing.T, tx pgx.Tx) (models.User, models.Group) {
		t.Helper()

		owner := createTestUser(t, tx, "owner@example.com")
		groupRepo := GroupRepo{DB: tx}
		group, err := groupRepo.CreateGroup(t.Context(), "Secret Santa 2026", owner.ID)
		require.NoError(t, err)

		return owner, group
	}

	params := func(userID uuid.UUID, groupID uuid.UUID, code string) repository.CreateParticipantParams {
		return repository.CreateParticipantParams{
			UserID:    userID,
			GroupID:   groupID,
			GiftValue: decimal.NewFromInt(50),
			Role:      models.RoleUser,
			Status:    models.StatusPending,
			Code:      code,
		}
	}

	t.Run("create participant ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}

			p, err := r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))

			require.NoError(t, err)
			assert.Equal(t, owner.ID, p.UserID)
			assert.Equal(t, group.ID, p.GroupID)
			assert.Equal(t, "12345678", p.Code)
			assert.Equal(t, models.RoleUser, p.Role)
			assert.Equal(t, models.StatusPending, p.Status)
			assert.True(t, decimal.NewFromInt(50).Equal(p.GiftValue))
		})
	})

	t.Run("create participant twice in same group", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}
			_, err := r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))
			require.NoError(t, err)

			_, err = r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "87654321"))

			assert.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrParticipantAlreadyExists)
		})
	})

	t.Run("create participant unknown user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			_, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}

			_, err := r.CreateParticipant(t.Context(), params(uuid.New(), group.ID, "12345678"))

			assert.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get participant by id and by group and user", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}
			created, err := r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))
			require.NoError(t, err)

			byID, err := r.GetParticipantByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, byID.ID)

			byPair, err := r.GetParticipantByGroupAndUser(t.Context(), group.ID, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, byPair.ID)

			_, err = r.GetParticipantByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)

			_, err = r.GetParticipantByGroupAndUser(t.Context(), group.ID, uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrParticipantNotFound)
		})
	})

	t.Run("list participants optionally filtered by group", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			groupRepo := GroupRepo{DB: tx}
			other, err := groupRepo.CreateGroup(t.Context(), "Other group", owner.ID)
			require.NoError(t, err)

			r := ParticipantRepo{DB: tx}
			_, err = r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "11111111"))
			require.NoError(t, err)
			_, err = r.CreateParticipant(t.Context(), params(owner.ID, other.ID, "22222222"))
			require.NoError(t, err)

			all, err := r.ListParticipants(t.Context(), nil)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			filtered, err := r.ListParticipants(t.Context(), &group.ID)
			require.NoError(t, err)
			require.Len(t, filtered, 1)
			assert.Equal(t, group.ID, filtered[0].GroupID)
		})
	})

	t.Run("update participant", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}
			created, err := r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))
			require.NoError(t, err)

			role := models.RoleAdmin
			status := models.StatusAccepted
			value := decimal.NewFromInt(100)
			got, err := r.UpdateParticipant(t.Context(), created.ID, repository.UpdateParticipantParams{
				GiftValue: &value,
				Role:      &role,
				Status:    &status,
			})

			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, got.Role)
			assert.Equal(t, models.StatusAccepted, got.Status)
			assert.True(t, value.Equal(got.GiftValue))
			assert.Equal(t, created.Code, got.Code, "code should never change on update")
		})
	})

	t.Run("code exists", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			r := ParticipantRepo{DB: tx}
			_, err := r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))
			require.NoError(t, err)

			exists, err := r.CodeExists(t.Context(), "12345678")
			require.NoError(t, err)
			assert.True(t, exists)

			exists, err = r.CodeExists(t.Context(), "00000000")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	})

	t.Run("code unique across groups", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			owner, group := seed(t, tx)
			groupRepo := GroupRepo{DB: tx}
			other, err := groupRepo.CreateGroup(t.Context(), "Other group", owner.ID)
			require.NoError(t, err)

			r := ParticipantRepo{DB: tx}
			_, err = r.CreateParticipant(t.Context(), params(owner.ID, group.ID, "12345678"))
			require.NoError(t, err)

			_, err = r.CreateParticipant(t.Context(), params(owner.ID, other.ID, "12345678"))

			assert.Error(t, err, "same code in another group should violate the unique constraint")
			assert.NotErrorIs(t, err, apperrors.ErrParticipantAlreadyExists, "code collision is not a membership conflict")
		})
	})

	// Quick sanity check that Storage wires the same repos
	t.Run("storage access", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewStorage(tx)

			require.NotNil(t, s.User())
			require.NotNil(t, s.Group())
			require.NotNil(t, s.Participant())

			err := s.InTx(t.Context(), func(txStorage repository.Storage) error {
				_, err := txStorage.User().ListUsers(t.Context())
				return err
			})
			require.NoError(t, err)
		})
	})
}
