package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
	"github.com/amiculto/backend/internal/service/auth"
)

type UpdateParams struct {
	Name       *string
	Password   *string
	IsVerified *bool
}

type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
	}
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}

// Update changes profile fields, a provided password is hashed before storing
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, arg UpdateParams) (models.User, error) {
	var hashedPassword *string

	if arg.Password != nil {
		hash, err := s.hasher.Hash(*arg.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
		}
		hashedPassword = &hash
	}

	return s.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		Name:           arg.Name,
		HashedPassword: hashedPassword,
		IsVerified:     arg.IsVerified,
	})
}
