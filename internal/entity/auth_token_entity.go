package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuthToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
