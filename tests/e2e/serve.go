package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/amiculto/backend/internal/handlers"
	"github.com/amiculto/backend/internal/logger"
	"github.com/amiculto/backend/internal/repository/postgres"
	"github.com/amiculto/backend/internal/service/auth"
	"github.com/amiculto/backend/internal/service/auth/tokenmanager"
	"github.com/amiculto/backend/internal/service/group"
	"github.com/amiculto/backend/internal/service/participant"
	"github.com/amiculto/backend/internal/service/user"
	"github.com/amiculto/backend/internal/testutil"
)

type Services struct {
	AuthService        *auth.AuthService
	UserService        *user.UserService
	GroupService       *group.GroupService
	ParticipantService *participant.ParticipantService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokenManager, err := tokenmanager.New(tokenmanager.Config{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
		})
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
		require.NoError(t, err, "auth service starting error", err)

		us := user.NewService(nil, storage.User())
		gs := group.NewService(storage)
		ps := participant.NewService(storage)

		// Complete all together as router
		router := handlers.NewRouter(as, us, gs, ps, logger.NewNoOpLogger())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService:        as,
			UserService:        us,
			GroupService:       gs,
			ParticipantService: ps,
		})
	})
}
