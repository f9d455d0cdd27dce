package entity

import (
	"time"

	"github.com/google/uuid"
)

type UsageStat struct {
	Id               uuid.UUID
	ModuleId         uuid.UUID
	UserId           uuid.UUID
	Day              time.Time
	PromptTokens     int64
	CompletionTokens int64
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
