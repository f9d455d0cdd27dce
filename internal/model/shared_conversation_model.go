package model

import (
	"time"

	"github.com/google/uuid"
)

// SharedConversation is a public read-only snapshot pointer. Messages created
// after CreatedAt stay invisible through the share.
type SharedConversation struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SharedUrlId    string    `gorm:"type:text;uniqueIndex;not null"`
	ConversationId uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"` // at most one share per conversation
	CreatedAt      time.Time

	Conversation Conversation `gorm:"foreignKey:ConversationId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (SharedConversation) TableName() string {
	return "shared_conversations"
}
