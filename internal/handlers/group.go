package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/handlers/render"
	"github.com/amiculto/backend/internal/handlers/userctx"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/service/group"
)

type groupResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
}

func newGroupResponse(g models.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		CreatedAt: g.CreatedAt,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
	}
}

func handleCreateGroup(groupService groupService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}
	type response struct {
		Group groupResponse       `json:"group"`
		Owner participantResponse `json:"owner"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// The requester becomes the owner and the first enrolled participant,
		// so enrolling may run out of unique codes like any other join
		g, owner, err := groupService.Create(r.Context(), data.Name, user.ID)
		switch {
		case err == nil:
			render.JSONWithStatus(w, "Group created successfully", response{
				Group: newGroupResponse(g),
				Owner: newParticipantResponse(owner),
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrCodeExhausted):
			render.Error(w, "Could not allocate a unique code", http.StatusBadRequest)
		default:
			l.Error("Failed to create group", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListGroups(groupService groupService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groups, err := groupService.List(r.Context())
		if err != nil {
			l.Error("Failed to list groups", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			response = append(response, newGroupResponse(g))
		}
		render.JSON(w, "OK", response)
	})
}

func handleGetGroup(groupService groupService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid group id", http.StatusBadRequest)
			return
		}

		g, err := groupService.Get(r.Context(), id)
		switch {
		case err == nil:
			render.JSON(w, "OK", newGroupResponse(g))
		case errors.Is(err, apperrors.ErrGroupNotFound):
			render.Error(w, "Group not found", http.StatusNotFound)
		default:
			l.Error("Failed to get group", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateGroup(groupService groupService, l logger.Logger) http.Handler {
	type request struct {
		Name    *string    `json:"name" validate:"omitempty,min=2,max=100"`
		OwnerID *uuid.UUID `json:"owner_id"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid group id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		g, err := groupService.Update(r.Context(), id, group.UpdateParams{
			Name:    data.Name,
			OwnerID: data.OwnerID,
		})
		switch {
		case err == nil:
			render.JSON(w, "Group updated successfully", newGroupResponse(g))
		case errors.Is(err, apperrors.ErrGroupNotFound):
			render.Error(w, "Group not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, "Owner not found", http.StatusNotFound)
		default:
			l.Error("Failed to update group", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
