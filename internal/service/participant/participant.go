package participant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
)

type CreateParams struct {
	UserID    uuid.UUID
	GroupID   uuid.UUID
	GiftValue decimal.Decimal

	// Optional, default RoleUser and StatusPending
	Role   models.Role
	Status models.Status
}

type UpdateParams struct {
	GiftValue *decimal.Decimal
	Role      *models.Role
	Status    *models.Status
}

type ParticipantService struct {
	storage repository.Storage
	codegen CodeGenerator
}

func NewService(storage repository.Storage) *ParticipantService {
	return &ParticipantService{
		storage: storage,
		codegen: NewCodeGenerator(defaultCodeDigits),
	}
}

// Create adds a user to a group with a freshly allocated unique code
// A user may join each group at most once
func (s *ParticipantService) Create(ctx context.Context, arg CreateParams) (models.Participant, error) {
	if arg.Role == "" {
		arg.Role = models.RoleUser
	}
	if arg.Status == "" {
		arg.Status = models.StatusPending
	}

	repo := s.storage.Participant()

	_, err := repo.GetParticipantByGroupAndUser(ctx, arg.GroupID, arg.UserID)
	switch {
	case err == nil:
		return models.Participant{}, apperrors.ErrParticipantAlreadyExists
	case errors.Is(err, apperrors.ErrParticipantNotFound):
		// free to join
	default:
		return models.Participant{}, fmt.Errorf("can't check group membership. Err: %w", err)
	}

	code, err := s.codegen.Generate(ctx, repo.CodeExists)
	if err != nil {
		return models.Participant{}, err
	}

	return repo.CreateParticipant(ctx, repository.CreateParticipantParams{
		UserID:    arg.UserID,
		GroupID:   arg.GroupID,
		GiftValue: arg.GiftValue,
		Role:      arg.Role,
		Status:    arg.Status,
		Code:      code,
	})
}

func (s *ParticipantService) Get(ctx context.Context, participantID uuid.UUID) (models.Participant, error) {
	return s.storage.Participant().GetParticipantByID(ctx, participantID)
}

// List returns all participants or, when groupID is set, one group's roster
func (s *ParticipantService) List(ctx context.Context, groupID *uuid.UUID) ([]models.Participant, error) {
	return s.storage.Participant().ListParticipants(ctx, groupID)
}

func (s *ParticipantService) Update(ctx context.Context, participantID uuid.UUID, arg UpdateParams) (models.Participant, error) {
	return s.storage.Participant().UpdateParticipant(ctx, participantID, repository.UpdateParticipantParams{
		GiftValue: arg.GiftValue,
		Role:      arg.Role,
		Status:    arg.Status,
	})
}
