package middleware

import (
	"context"
	"net/http"

	"github.com/amiculto/backend/internal/handlers/render"
	"github.com/amiculto/backend/internal/handlers/userctx"
	"github.com/amiculto/backend/internal/models"
)

type authService interface {
	GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error)
}

// Auth rejects requests without a valid access token and stores
// the authenticated user in the request context
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.GetUserFromRequest(r.Context(), r)
			if err != nil {
				render.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
