package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Message struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserMessage      string    `gorm:"type:text;not null"`
	AgentMessage     string    `gorm:"type:text"` // sanitized for HTML display
	Prompt           string    `gorm:"type:text"` // full assembled prompt including retrieved context
	ContextDocIds    datatypes.JSON `gorm:"type:jsonb"` // vector-store document ids used as context
	PromptTokens     int       `gorm:"default:0"`
	CompletionTokens int       `gorm:"default:0"`
	Model            string    `gorm:"type:text"`
	Helpful          *bool     // nullable tri-state rating
	CreatedAt        time.Time // set explicitly by the service, not at commit time
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Conversation Conversation `gorm:"foreignKey:ConversationId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Message) TableName() string {
	return "messages"
}
