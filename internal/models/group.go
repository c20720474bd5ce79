package models

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Name      string
	OwnerID   uuid.UUID
}
