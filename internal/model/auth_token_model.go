package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthToken is a short-lived launch token, swept periodically once expired.
type AuthToken struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:text;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
