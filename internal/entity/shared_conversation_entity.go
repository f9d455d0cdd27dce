package entity

import (
	"time"

	"github.com/google/uuid"
)

type SharedConversation struct {
	Id             uuid.UUID
	SharedUrlId    string
	ConversationId uuid.UUID
	CreatedAt      time.Time
}
