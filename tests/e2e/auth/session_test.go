package auth

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/amiculto/backend/internal/testutil"
	"github.com/amiculto/backend/tests/e2e"
)

const (
	RegisterURL = "/api/auth/register"
	LoginURL    = "/api/auth/login"
	RefreshURL  = "/api/auth/refresh"
	SignOutURL  = "/api/auth/signout"
	MeURL       = "/api/auth/me"
)

// Follows one user through a whole session: sign up, sign in with good and
// bad credentials, sign out and try to refresh afterwards
func Test_AuthSession(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		testutil.WithTx(tx, t, func(_ pgx.Tx) {
			jar, err := cookiejar.New(nil)
			require.NoError(t, err)
			client := &http.Client{Jar: jar}

			post := func(t *testing.T, path string, data string) (*http.Response, string) {
				t.Helper()

				var body io.Reader
				if data != "" {
					body = strings.NewReader(data)
				}
				resp, err := client.Post(srvURL+path, "application/json", body)
				require.NoError(t, err)
				raw, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				return resp, string(raw)
			}

			// Ana signs up, both token cookies arrive
			resp, body := post(t, RegisterURL, `{"name": "Ana", "email": "ana@x.com", "password": "StrongEnoughPassword"}`)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			require.Len(t, resp.Cookies(), 2, "access and refresh cookies should be set")
			for _, cookie := range resp.Cookies() {
				require.True(t, cookie.HttpOnly, "cookie %s should be HttpOnly", cookie.Name)
				require.Equal(t, http.SameSiteStrictMode, cookie.SameSite, "cookie %s should be SameSite Strict", cookie.Name)
			}

			// She signs in again, fine; the pair is in the body as well as the cookies
			resp, body = post(t, LoginURL, `{"email": "ana@x.com", "password": "StrongEnoughPassword"}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, `"accessToken"`, "issued tokens should be in the response body")
			require.Contains(t, body, `"refreshToken"`, "issued tokens should be in the response body")

			// A wrong password is turned away and cookies stay untouched
			resp, body = post(t, LoginURL, `{"email": "ana@x.com", "password": "Guesswork"}`)
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, "Invalid password")
			require.Empty(t, resp.Cookies(), "failed login should not touch cookies")

			// Stash the refresh token before signing out
			serverURL, err := url.Parse(srvURL)
			require.NoError(t, err)
			var refreshToken string
			for _, c := range jar.Cookies(serverURL) {
				if c.Name == "refreshToken" {
					refreshToken = c.Value
				}
			}
			require.NotEmpty(t, refreshToken)

			// Sign out clears both cookies
			resp, body = post(t, SignOutURL, "")
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			for _, cookie := range resp.Cookies() {
				require.Negative(t, cookie.MaxAge, "cookie %s should be dropped on signout", cookie.Name)
			}

			resp, body = post(t, RefreshURL, "")
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "refresh without cookie should fail. Body: %s", body)

			// The stashed refresh token is only checked for signature and expiry,
			// so it still rotates the pair even after signout
			req, err := http.NewRequest(http.MethodPost, srvURL+RefreshURL, nil)
			require.NoError(t, err)
			req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})
			raw, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			respBody, err := io.ReadAll(raw.Body)
			require.NoError(t, err)
			defer func() { _ = raw.Body.Close() }()
			require.Equalf(t, http.StatusOK, raw.StatusCode, "not expected code. Body: %s", string(respBody))
		})
	})
}

func Test_AuthLoginSecondDevice(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		testutil.WithTx(tx, t, func(_ pgx.Tx) {
			_, _, err := s.AuthService.Register(t.Context(), "Ana", "ana@x.com", "StrongEnoughPassword")
			require.NoError(t, err)

			login := func(t *testing.T) string {
				t.Helper()

				data := `{"email": "ana@x.com", "password": "StrongEnoughPassword"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()
				require.Equal(t, http.StatusOK, resp.StatusCode)

				for _, c := range resp.Cookies() {
					if c.Name == "refreshToken" {
						return c.Value
					}
				}
				t.Fatal("refresh cookie not set on login")
				return ""
			}

			first := login(t)
			second := login(t)
			require.NotEmpty(t, first)
			require.NotEmpty(t, second)

			// Only one refresh token is stored per account: the second login
			// replaced the first one in the database
			user, err := s.UserService.List(t.Context())
			require.NoError(t, err)
			require.Len(t, user, 1)
			require.NotNil(t, user[0].RefreshToken)
			require.Equal(t, second, *user[0].RefreshToken, fmt.Sprintf("stored token should be from the latest login, user %s", user[0].Email))
		})
	})
}
