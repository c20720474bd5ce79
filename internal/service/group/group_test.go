package group

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
	"github.com/amiculto/backend/internal/repository/postgres"
	"github.com/amiculto/backend/internal/service/participant"
	"github.com/amiculto/backend/internal/testutil"
	"github.com/google/uuid"
)

func Test_GroupService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createUser := func(t *testing.T, storage repository.Storage, email string) models.User {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
			Name: "Someone", Email: email, HashedPassword: "hash",
		})
		require.NoError(t, err)
		return user
	}

	t.Run("create enrolls owner as admin participant", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			owner := createUser(t, storage, "owner@x.com")
			s := NewService(storage)

			group, ownerParticipant, err := s.Create(t.Context(), "Secret Santa 2026", owner.ID)

			require.NoError(t, err)
			assert.Equal(t, "Secret Santa 2026", group.Name)
			assert.Equal(t, owner.ID, group.OwnerID)

			assert.Equal(t, owner.ID, ownerParticipant.UserID)
			assert.Equal(t, group.ID, ownerParticipant.GroupID)
			assert.Equal(t, models.RoleAdmin, ownerParticipant.Role)
			assert.Equal(t, models.StatusAccepted, ownerParticipant.Status)
			assert.True(t, decimal.Zero.Equal(ownerParticipant.GiftValue))
			assert.Len(t, ownerParticipant.Code, 8)
		})
	})

	t.Run("create with unknown owner rolls back", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			s := NewService(storage)

			_, _, err := s.Create(t.Context(), "Orphan group", uuid.New())

			require.Error(t, err)

			groups, err := storage.Group().ListGroups(t.Context())
			require.NoError(t, err)
			assert.Empty(t, groups, "failed create should leave no group behind")
		})
	})

	t.Run("get and list", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			owner := createUser(t, storage, "owner@x.com")
			s := NewService(storage)

			created, _, err := s.Create(t.Context(), "Secret Santa 2026", owner.ID)
			require.NoError(t, err)

			got, err := s.Get(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)

			groups, err := s.List(t.Context())
			require.NoError(t, err)
			assert.Len(t, groups, 1)

			_, err = s.Get(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		})
	})

	t.Run("update rename only", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			owner := createUser(t, storage, "owner@x.com")
			s := NewService(storage)
			created, ownerParticipant, err := s.Create(t.Context(), "Secret Santa 2026", owner.ID)
			require.NoError(t, err)

			name := "Renamed"
			got, err := s.Update(t.Context(), created.ID, UpdateParams{Name: &name})

			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.Name)
			assert.Equal(t, owner.ID, got.OwnerID)

			p, err := storage.Participant().GetParticipantByID(t.Context(), ownerParticipant.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, p.Role, "rename should not touch roles")
		})
	})

	t.Run("owner change moves admin role", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			owner := createUser(t, storage, "owner@x.com")
			newOwner := createUser(t, storage, "newowner@x.com")
			s := NewService(storage)

			created, _, err := s.Create(t.Context(), "Secret Santa 2026", owner.ID)
			require.NoError(t, err)

			// Enroll the future owner as a plain participant first
			_, err = participant.NewService(storage).Create(t.Context(), participant.CreateParams{
				UserID:  newOwner.ID,
				GroupID: created.ID,
			})
			require.NoError(t, err)

			got, err := s.Update(t.Context(), created.ID, UpdateParams{OwnerID: &newOwner.ID})

			require.NoError(t, err)
			assert.Equal(t, newOwner.ID, got.OwnerID)

			previous, err := storage.Participant().GetParticipantByGroupAndUser(t.Context(), created.ID, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleUser, previous.Role, "previous owner should be demoted")

			promoted, err := storage.Participant().GetParticipantByGroupAndUser(t.Context(), created.ID, newOwner.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleAdmin, promoted.Role, "new owner should be promoted")
		})
	})

	t.Run("owner change tolerates unenrolled new owner", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			owner := createUser(t, storage, "owner@x.com")
			newOwner := createUser(t, storage, "newowner@x.com")
			s := NewService(storage)

			created, _, err := s.Create(t.Context(), "Secret Santa 2026", owner.ID)
			require.NoError(t, err)

			got, err := s.Update(t.Context(), created.ID, UpdateParams{OwnerID: &newOwner.ID})

			require.NoError(t, err, "missing participant of the new owner is not an error")
			assert.Equal(t, newOwner.ID, got.OwnerID)

			previous, err := storage.Participant().GetParticipantByGroupAndUser(t.Context(), created.ID, owner.ID)
			require.NoError(t, err)
			assert.Equal(t, models.RoleUser, previous.Role, "previous owner is still demoted")
		})
	})

	t.Run("update unknown group", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			s := NewService(postgres.NewStorage(tx))
			name := "Renamed"

			_, err := s.Update(t.Context(), uuid.New(), UpdateParams{Name: &name})

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		})
	})
}
