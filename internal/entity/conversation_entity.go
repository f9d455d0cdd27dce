package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id               uuid.UUID
	UrlId            string
	Name             string
	UserId           uuid.UUID
	ModuleId         uuid.UUID
	AgentId          uuid.UUID
	CollectionId     uuid.UUID
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}
