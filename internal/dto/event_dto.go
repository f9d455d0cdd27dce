package dto

import (
	"time"

	"github.com/google/uuid"
)

// MessageCreatedEvent is published after an exchange commits and feeds
// the usage-metrics consumer.
type MessageCreatedEvent struct {
	MessageId        uuid.UUID `json:"message_id"`
	ConversationId   uuid.UUID `json:"conversation_id"`
	ModuleId         uuid.UUID `json:"module_id"`
	UserId           uuid.UUID `json:"user_id"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
	CreatedAt        time.Time `json:"created_at"`
}
