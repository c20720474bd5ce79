package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiculto/backend/internal/models"
)

type CreateUserParams struct {
	Name           string
	Email          string
	HashedPassword string
}

// Fields to change, nil means "keep current value"
type UpdateUserParams struct {
	Name           *string
	HashedPassword *string
	IsVerified     *bool
}

// User repository interface
type UserRepo interface {
	// Create user
	// If user with email exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	UpdateUser(ctx context.Context, userID uuid.UUID, arg UpdateUserParams) (models.User, error)

	// Persist the current refresh token for the user
	// nil clears the stored token (sign out)
	SetRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
}

type UpdateGroupParams struct {
	Name    *string
	OwnerID *uuid.UUID
}

// Group repository interface
type GroupRepo interface {
	CreateGroup(ctx context.Context, name string, ownerID uuid.UUID) (models.Group, error)

	// If group not found must return apperrors.ErrGroupNotFound
	GetGroupByID(ctx context.Context, groupID uuid.UUID) (models.Group, error)

	ListGroups(ctx context.Context) ([]models.Group, error)

	UpdateGroup(ctx context.Context, groupID uuid.UUID, arg UpdateGroupParams) (models.Group, error)
}

type CreateParticipantParams struct {
	UserID    uuid.UUID
	GroupID   uuid.UUID
	GiftValue decimal.Decimal
	Role      models.Role
	Status    models.Status
	Code      string
}

type UpdateParticipantParams struct {
	GiftValue *decimal.Decimal
	Role      *models.Role
	Status    *models.Status
}

// Participant repository interface
type ParticipantRepo interface {
	// Create participant
	// If the (group, user) pair is taken must return apperrors.ErrParticipantAlreadyExists
	CreateParticipant(ctx context.Context, arg CreateParticipantParams) (models.Participant, error)

	// If participant not found must return apperrors.ErrParticipantNotFound
	GetParticipantByID(ctx context.Context, participantID uuid.UUID) (models.Participant, error)
	GetParticipantByGroupAndUser(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (models.Participant, error)

	// List all participants or, if groupID is not nil, participants of that group
	ListParticipants(ctx context.Context, groupID *uuid.UUID) ([]models.Participant, error)

	UpdateParticipant(ctx context.Context, participantID uuid.UUID, arg UpdateParticipantParams) (models.Participant, error)

	// Report whether any participant already holds the code
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Storage aggregates all repositories sharing one connection or transaction
type Storage interface {
	User() UserRepo
	Group() GroupRepo
	Participant() ParticipantRepo

	// InTx runs fn with a Storage bound to a single db transaction
	// Commits if fn returns nil, rolls back otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
