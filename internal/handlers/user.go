package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/handlers/render"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/service/user"
)

// userResponse is the public view of a user
// Password hash and stored refresh token never leave the service
type userResponse struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		CreatedAt:  u.CreatedAt,
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
	}
}

func handleListUsers(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.List(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]userResponse, 0, len(users))
		for _, u := range users {
			response = append(response, newUserResponse(u))
		}
		render.JSON(w, "OK", response)
	})
}

func handleGetUser(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		u, err := userService.Get(r.Context(), id)
		switch {
		case err == nil:
			render.JSON(w, "OK", newUserResponse(u))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get user", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
		Password   *string `json:"password" validate:"omitempty,min=8"`
		IsVerified *bool   `json:"is_verified"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid user id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		u, err := userService.Update(r.Context(), id, user.UpdateParams{
			Name:       data.Name,
			Password:   data.Password,
			IsVerified: data.IsVerified,
		})
		switch {
		case err == nil:
			render.JSON(w, "User updated successfully", newUserResponse(u))
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to update user", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
