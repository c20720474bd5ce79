package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
)

type Participant struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    uuid.UUID
	GroupID   uuid.UUID
	GiftValue decimal.Decimal
	Role      Role
	Status    Status

	// Random numeric code, unique across all participants
	Code string
}
