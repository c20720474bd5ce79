package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Name           string
	Email          string
	HashedPassword string
	IsVerified     bool

	// The single currently valid refresh token
	// nil means the user has no active session (or signed out)
	RefreshToken *string
}
