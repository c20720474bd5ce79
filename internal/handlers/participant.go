package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/handlers/render"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/service/participant"
)

type participantResponse struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UserID    uuid.UUID       `json:"user_id"`
	GroupID   uuid.UUID       `json:"group_id"`
	GiftValue decimal.Decimal `json:"gift_value"`
	Role      models.Role     `json:"role"`
	Status    models.Status   `json:"status"`
	Code      string          `json:"code"`
}

func newParticipantResponse(p models.Participant) participantResponse {
	return participantResponse{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		UserID:    p.UserID,
		GroupID:   p.GroupID,
		GiftValue: p.GiftValue,
		Role:      p.Role,
		Status:    p.Status,
		Code:      p.Code,
	}
}

func handleCreateParticipant(participantService participantService, l logger.Logger) http.Handler {
	type request struct {
		UserID    uuid.UUID       `json:"user_id" validate:"required"`
		GroupID   uuid.UUID       `json:"group_id" validate:"required"`
		GiftValue decimal.Decimal `json:"gift_value"`
		Role      models.Role     `json:"role" validate:"omitempty,oneof=ADMIN USER"`
		Status    models.Status   `json:"status" validate:"omitempty,oneof=PENDING ACCEPTED"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := participantService.Create(r.Context(), participant.CreateParams{
			UserID:    data.UserID,
			GroupID:   data.GroupID,
			GiftValue: data.GiftValue,
			Role:      data.Role,
			Status:    data.Status,
		})
		switch {
		case err == nil:
			render.JSONWithStatus(w, "Participant created successfully", newParticipantResponse(p), http.StatusCreated)
		case errors.Is(err, apperrors.ErrParticipantAlreadyExists):
			render.Error(w, "User already participates in this group", http.StatusConflict)
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Error(w, "User or group not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrCodeExhausted):
			render.Error(w, "Could not allocate a unique code", http.StatusBadRequest)
		default:
			l.Error("Failed to create participant", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListParticipants(participantService participantService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var groupID *uuid.UUID
		if raw := r.URL.Query().Get("group_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				render.Error(w, "Invalid group id", http.StatusBadRequest)
				return
			}
			groupID = &id
		}

		participants, err := participantService.List(r.Context(), groupID)
		if err != nil {
			l.Error("Failed to list participants", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]participantResponse, 0, len(participants))
		for _, p := range participants {
			response = append(response, newParticipantResponse(p))
		}
		render.JSON(w, "OK", response)
	})
}

func handleGetParticipant(participantService participantService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid participant id", http.StatusBadRequest)
			return
		}

		p, err := participantService.Get(r.Context(), id)
		switch {
		case err == nil:
			render.JSON(w, "OK", newParticipantResponse(p))
		case errors.Is(err, apperrors.ErrParticipantNotFound):
			render.Error(w, "Participant not found", http.StatusNotFound)
		default:
			l.Error("Failed to get participant", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateParticipant(participantService participantService, l logger.Logger) http.Handler {
	type request struct {
		GiftValue *decimal.Decimal `json:"gift_value"`
		Role      *models.Role     `json:"role" validate:"omitempty,oneof=ADMIN USER"`
		Status    *models.Status   `json:"status" validate:"omitempty,oneof=PENDING ACCEPTED"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.Error(w, "Invalid participant id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := participantService.Update(r.Context(), id, participant.UpdateParams{
			GiftValue: data.GiftValue,
			Role:      data.Role,
			Status:    data.Status,
		})
		switch {
		case err == nil:
			render.JSON(w, "Participant updated successfully", newParticipantResponse(p))
		case errors.Is(err, apperrors.ErrParticipantNotFound):
			render.Error(w, "Participant not found", http.StatusNotFound)
		default:
			l.Error("Failed to update participant", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
