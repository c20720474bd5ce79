package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/handlers/userctx"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/service/group"
)

// group service stub that always fails creation with the given error
type failingGroupService struct {
	createErr error
}

func (s *failingGroupService) Create(_ context.Context, _ string, _ uuid.UUID) (models.Group, models.Participant, error) {
	return models.Group{}, models.Participant{}, s.createErr
}

func (s *failingGroupService) Get(_ context.Context, _ uuid.UUID) (models.Group, error) {
	return models.Group{}, apperrors.ErrGroupNotFound
}

func (s *failingGroupService) List(_ context.Context) ([]models.Group, error) {
	return nil, nil
}

func (s *failingGroupService) Update(_ context.Context, _ uuid.UUID, _ group.UpdateParams) (models.Group, error) {
	return models.Group{}, apperrors.ErrGroupNotFound
}

func Test_CreateGroup_CodeExhausted(t *testing.T) {
	// Enrolling the owner allocates a code, so creation can run dry like a join does
	svc := &failingGroupService{
		createErr: fmt.Errorf("can't enroll owner as the first participant. Err: %w", apperrors.ErrCodeExhausted),
	}
	handler := handleCreateGroup(svc, logger.NewNoOpLogger())

	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(`{"name": "Office Santa"}`))
	req = req.WithContext(userctx.New(req.Context(), models.User{ID: uuid.New(), Name: "Ana"}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	require.Equalf(t, http.StatusBadRequest, rec.Code, "exhaustion is the caller's problem, not a server error. Body: %s", string(body))
	require.JSONEq(t, `{
			"success": false,
			"message": "Could not allocate a unique code",
			"data": null
		}`,
		string(body),
	)
}
