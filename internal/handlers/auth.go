package handlers

import (
	"errors"
	"net/http"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/handlers/render"
	"github.com/amiculto/backend/internal/handlers/userctx"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/models"
)

// tokenPairResponse carries the issued tokens in the response body,
// the same values are set as cookies
type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func newTokenPairResponse(pair models.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		userResponse
		tokenPairResponse
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, pair, err := authService.Register(r.Context(), data.Name, data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.Error(w, "User already exists", http.StatusConflict)
			default:
				l.Error("Failed to register user", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokenPairToResponse(w, pair)
		render.JSONWithStatus(w, "User registered successfully", response{
			userResponse:      newUserResponse(user),
			tokenPairResponse: newTokenPairResponse(pair),
		}, http.StatusCreated)
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := authService.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.Error(w, "User not found", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrInvalidPassword):
				render.Error(w, "Invalid password", http.StatusUnauthorized)
			default:
				l.Error("Failed to login user", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, "User logged in successfully", newTokenPairResponse(pair))
	})
}

func handleTokenRefresh(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.GetRefreshString(r)
		if err != nil {
			render.Error(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		pair, err := authService.Refresh(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired):
				render.Error(w, "Refresh token expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrRefreshTokenInvalid):
				render.Error(w, "Refresh token invalid", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrUserNotFound):
				render.Error(w, "Refresh token invalid", http.StatusUnauthorized)
			default:
				l.Error("Failed to refresh tokens", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.SetTokenPairToResponse(w, pair)
		render.JSON(w, "Tokens refreshed successfully", newTokenPairResponse(pair))
	})
}

func handleSignOut(authService authService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refresh, err := authService.GetRefreshString(r)
		if err != nil {
			render.Error(w, "Refresh token not found", http.StatusUnauthorized)
			return
		}

		err = authService.SignOut(r.Context(), refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrRefreshTokenExpired),
				errors.Is(err, apperrors.ErrRefreshTokenInvalid),
				errors.Is(err, apperrors.ErrUserNotFound):
				render.Error(w, "Refresh token invalid", http.StatusUnauthorized)
			default:
				l.Error("Failed to sign out user", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		authService.ClearTokensFromResponse(w)
		render.JSON(w, "User signed out successfully", nil)
	})
}

func handleMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, "OK", newUserResponse(user))
	})
}
