package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Conversation struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UrlId            string    `gorm:"type:text;uniqueIndex;not null"` // opaque id used in public URLs
	Name             string    `gorm:"type:text;not null"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	ModuleId         uuid.UUID `gorm:"type:uuid;not null;index"`
	AgentId          uuid.UUID `gorm:"type:uuid;not null"`
	CollectionId     uuid.UUID `gorm:"type:uuid;not null"`
	PromptTokens     int       `gorm:"default:0"`
	CompletionTokens int       `gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	User  User  `gorm:"foreignKey:UserId"`
	Agent Agent `gorm:"foreignKey:AgentId"`
}

func (Conversation) TableName() string {
	return "conversations"
}
