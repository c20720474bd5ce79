package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
	"github.com/amiculto/backend/internal/service/participant"
)

type UpdateParams struct {
	Name    *string
	OwnerID *uuid.UUID
}

type GroupService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *GroupService {
	return &GroupService{storage: storage}
}

// Create makes a new group and enrolls the owner as its first participant
// with the admin role, accepted status and a fresh unique code
// Both writes happen in one transaction: a group never exists without its owner enrolled
func (s *GroupService) Create(ctx context.Context, name string, ownerID uuid.UUID) (models.Group, models.Participant, error) {
	var group models.Group
	var owner models.Participant

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		var err error

		group, err = tx.Group().CreateGroup(ctx, name, ownerID)
		if err != nil {
			return err
		}

		owner, err = participant.NewService(tx).Create(ctx, participant.CreateParams{
			UserID:    ownerID,
			GroupID:   group.ID,
			GiftValue: decimal.Zero,
			Role:      models.RoleAdmin,
			Status:    models.StatusAccepted,
		})
		if err != nil {
			return fmt.Errorf("can't enroll owner as the first participant. Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.Group{}, models.Participant{}, err
	}

	return group, owner, nil
}

func (s *GroupService) Get(ctx context.Context, groupID uuid.UUID) (models.Group, error) {
	return s.storage.Group().GetGroupByID(ctx, groupID)
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.storage.Group().ListGroups(ctx)
}

// Update renames the group and, if the owner changes, moves the admin role:
// the previous owner's participant is demoted to a plain user and the new
// owner's participant (when enrolled already) is promoted to admin
func (s *GroupService) Update(ctx context.Context, groupID uuid.UUID, arg UpdateParams) (models.Group, error) {
	var group models.Group

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		current, err := tx.Group().GetGroupByID(ctx, groupID)
		if err != nil {
			return err
		}

		group, err = tx.Group().UpdateGroup(ctx, groupID, repository.UpdateGroupParams{
			Name:    arg.Name,
			OwnerID: arg.OwnerID,
		})
		if err != nil {
			return err
		}

		if arg.OwnerID == nil || *arg.OwnerID == current.OwnerID {
			return nil
		}

		if err := s.setRole(ctx, tx, groupID, current.OwnerID, models.RoleUser); err != nil {
			return fmt.Errorf("can't demote previous owner. Err: %w", err)
		}
		if err := s.setRole(ctx, tx, groupID, *arg.OwnerID, models.RoleAdmin); err != nil {
			return fmt.Errorf("can't promote new owner. Err: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.Group{}, err
	}

	return group, nil
}

// setRole updates the role of the user's participant in the group
// Missing participants are skipped: the new owner may not be enrolled yet
func (s *GroupService) setRole(ctx context.Context, tx repository.Storage, groupID uuid.UUID, userID uuid.UUID, role models.Role) error {
	p, err := tx.Participant().GetParticipantByGroupAndUser(ctx, groupID, userID)
	switch {
	case errors.Is(err, apperrors.ErrParticipantNotFound):
		return nil
	case err != nil:
		return err
	}

	_, err = tx.Participant().UpdateParticipant(ctx, p.ID, repository.UpdateParticipantParams{Role: &role})
	return err
}
