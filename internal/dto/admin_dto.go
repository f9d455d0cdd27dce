package dto

import (
	"time"

	"github.com/google/uuid"
)

type SetUserQuotaRequest struct {
	MaxRequests int `json:"max_requests" validate:"min=0"`
}

type UsageStatResponse struct {
	UserId           uuid.UUID `json:"user_id"`
	Day              time.Time `json:"day"`
	PromptTokens     int64     `json:"prompt_tokens"`
	CompletionTokens int64     `json:"completion_tokens"`
}
