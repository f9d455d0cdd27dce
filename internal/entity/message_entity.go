package entity

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id               uuid.UUID
	ConversationId   uuid.UUID
	UserMessage      string
	AgentMessage     string
	Prompt           string
	ContextDocIds    []string
	PromptTokens     int
	CompletionTokens int
	Model            string
	Helpful          *bool
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
