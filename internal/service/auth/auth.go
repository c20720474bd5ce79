package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amiculto/backend/internal/apperrors"
	"github.com/amiculto/backend/internal/models"
	"github.com/amiculto/backend/internal/repository"
	"github.com/amiculto/backend/internal/service/auth/tokenmanager"
)

const (
	defaultAccessCookieName  = "accessToken"
	defaultRefreshCookieName = "refreshToken"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

type Config struct {
	// Cookie names for the issued tokens
	// If not set than defaults are used
	AccessCookieName  string
	RefreshCookieName string

	// Mark cookies https-only, should be enabled in production
	SecureCookies bool

	// Hasher to use during user registration or login process
	Hasher PasswordHasher
}

// Auth service
type AuthService struct {
	// Manager to issue and verify token pairs (access and refresh)
	token *tokenmanager.TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repository to access long term data
	userRepo repository.UserRepo

	accessCookieName  string
	refreshCookieName string
	secureCookies     bool
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	// Set default bcrypt hasher if not provided by user
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if cfg.AccessCookieName == "" {
		cfg.AccessCookieName = defaultAccessCookieName
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}

	if token == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	return &AuthService{
		token:             token,
		hasher:            hasher,
		userRepo:          userRepo,
		accessCookieName:  cfg.AccessCookieName,
		refreshCookieName: cfg.RefreshCookieName,
		secureCookies:     cfg.SecureCookies,
	}, nil
}

// Register creates user and logs it in right away
// Email uniqueness is enforced by the users table, not by a lookup first,
// so two concurrent registrations can't both succeed
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (models.User, models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Name:           name,
		Email:          email,
		HashedPassword: hash,
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair
// The previously stored refresh token is overwritten: logging in on a second
// device silently ends the refresh chain of the first one
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrInvalidPassword
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates the token pair using a valid refresh token
// The presented token is only checked for signature and expiry, it is not
// compared against the stored value, so rotation reuse is not detected
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	userID, err := s.token.ParseRefresh(refresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return s.issuePair(ctx, user)
}

// SignOut clears the stored refresh token
// Outstanding access tokens stay valid until their own expiry
func (s *AuthService) SignOut(ctx context.Context, refresh string) error {
	userID, err := s.token.ParseRefresh(refresh)
	if err != nil {
		return err
	}

	return s.userRepo.SetRefreshToken(ctx, userID, nil)
}

// GetUserFromRequest authenticates the request by its access token
// The token is read from the access cookie or the Authorization header
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	access, err := s.getAccessString(r)
	if err != nil {
		return models.User{}, err
	}

	userID, err := s.token.ParseAccess(access)
	if err != nil {
		return models.User{}, fmt.Errorf("access token is not valid. Err: %w", err)
	}

	return s.userRepo.GetUserByID(ctx, userID)
}

// GetRefreshString reads the refresh token from the request cookie
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil {
		return "", fmt.Errorf("refresh cookie not found. Err: %w", err)
	}

	return cookie.Value, nil
}

// SetTokenPairToResponse sets both tokens as response cookies
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, s.tokenCookie(s.accessCookieName, pair.Access))
	http.SetCookie(w, s.tokenCookie(s.refreshCookieName, pair.Refresh))
}

// SetTokenPairToRequest sets both tokens as request cookies
// Mostly useful in tests to act as a logged in client
func (s *AuthService) SetTokenPairToRequest(r *http.Request, pair models.TokenPair) {
	r.AddCookie(s.tokenCookie(s.accessCookieName, pair.Access))
	r.AddCookie(s.tokenCookie(s.refreshCookieName, pair.Refresh))
}

// ClearTokensFromResponse instructs the client to drop both token cookies
func (s *AuthService) ClearTokensFromResponse(w http.ResponseWriter) {
	for _, name := range []string{s.accessCookieName, s.refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
			Secure:   s.secureCookies,
		})
	}
}

// issuePair generates a token pair and stores the refresh token on the user
func (s *AuthService) issuePair(ctx context.Context, user models.User) (models.TokenPair, error) {
	pair, err := s.token.GeneratePair(user)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("token could not generated, sorry. %w", err)
	}

	err = s.userRepo.SetRefreshToken(ctx, user.ID, &pair.Refresh.Value)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return pair, nil
}

func (s *AuthService) getAccessString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.accessCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, nil
	}

	return "", errors.New("access token not found in cookie or Authorization header")
}

func (s *AuthService) tokenCookie(name string, token models.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token.Value,
		Path:     "/",
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   s.secureCookies,
	}
}
