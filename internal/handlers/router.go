package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/amiculto/backend/internal/handlers/middleware"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/service/group"
	"github.com/amiculto/backend/internal/service/participant"
	"github.com/amiculto/backend/internal/service/user"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	groupService groupService,
	participantService participantService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.Auth(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	apimux := http.NewServeMux()

	apimux.Handle("POST /auth/register", handleRegister(authService, logger))
	apimux.Handle("POST /auth/login", handleLogin(authService, logger))
	apimux.Handle("POST /auth/refresh", handleTokenRefresh(authService, logger))
	apimux.Handle("POST /auth/signout", handleSignOut(authService, logger))
	apimux.Handle("GET /auth/me", withAuth(handleMe()))

	apimux.Handle("GET /users", withAuth(handleListUsers(userService, logger)))
	apimux.Handle("GET /users/{id}", withAuth(handleGetUser(userService, logger)))
	apimux.Handle("PUT /users/{id}", withAuth(handleUpdateUser(userService, logger)))

	apimux.Handle("POST /groups", withAuth(handleCreateGroup(groupService, logger)))
	apimux.Handle("GET /groups", withAuth(handleListGroups(groupService, logger)))
	apimux.Handle("GET /groups/{id}", withAuth(handleGetGroup(groupService, logger)))
	apimux.Handle("PUT /groups/{id}", withAuth(handleUpdateGroup(groupService, logger)))

	apimux.Handle("POST /participants", withAuth(handleCreateParticipant(participantService, logger)))
	apimux.Handle("GET /participants", withAuth(handleListParticipants(participantService, logger)))
	apimux.Handle("GET /participants/{id}", withAuth(handleGetParticipant(participantService, logger)))
	apimux.Handle("PUT /participants/{id}", withAuth(handleUpdateParticipant(participantService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", apimux))

	handler := chain(root,
		middleware.Logger(logger),
	)

	return handler
}

type authService interface {
	// Register user and log it in right away
	// Has to return apperrors.ErrUserAlreadyExists if the email is taken
	Register(ctx context.Context, name string, email string, password string) (models.User, models.TokenPair, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound if user not found and
	// apperrors.ErrInvalidPassword if the password doesn't match
	Login(ctx context.Context, email string, password string) (models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token broken: has to return apperrors.ErrRefreshTokenInvalid
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// SignOut drops the stored refresh token of the token's owner
	SignOut(ctx context.Context, refresh string) error

	// Set auth tokens (access, refresh) to response
	SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair)

	// Instruct the client to drop both token cookies
	ClearTokensFromResponse(w http.ResponseWriter)

	// Get refresh token from request
	GetRefreshString(r *http.Request) (string, error)

	// Get request and return user if it authenticated or error
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

type userService interface {
	Get(ctx context.Context, userID uuid.UUID) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID uuid.UUID, arg user.UpdateParams) (models.User, error)
}

type groupService interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (models.Group, models.Participant, error)
	Get(ctx context.Context, groupID uuid.UUID) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, groupID uuid.UUID, arg group.UpdateParams) (models.Group, error)
}

type participantService interface {
	Create(ctx context.Context, arg participant.CreateParams) (models.Participant, error)
	Get(ctx context.Context, participantID uuid.UUID) (models.Participant, error)
	List(ctx context.Context, groupID *uuid.UUID) ([]models.Participant, error)
	Update(ctx context.Context, participantID uuid.UUID, arg participant.UpdateParams) (models.Participant, error)
}
