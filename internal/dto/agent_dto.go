package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAgentRequest struct {
	Name               string  `json:"name" validate:"required,max=255"`
	SystemInstructions string  `json:"system_instructions" validate:"required"`
	ContextWindow      int     `json:"context_window" validate:"omitempty,min=1,max=50"`
	Temperature        float64 `json:"temperature" validate:"omitempty,min=0,max=2"`
	MaxResponseTokens  int     `json:"max_response_tokens" validate:"omitempty,min=1"`
	// MirrorUpstream registers the agent with the external
	// conversation-management API as well.
	MirrorUpstream bool `json:"mirror_upstream"`
}

type UpdateAgentRequest struct {
	SystemInstructions *string  `json:"system_instructions"`
	ContextWindow      *int     `json:"context_window" validate:"omitempty,min=1,max=50"`
	Temperature        *float64 `json:"temperature" validate:"omitempty,min=0,max=2"`
	MaxResponseTokens  *int     `json:"max_response_tokens" validate:"omitempty,min=1"`
}

type AgentResponse struct {
	Id                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	SystemInstructions string    `json:"system_instructions"`
	ContextWindow      int       `json:"context_window"`
	Temperature        float64   `json:"temperature"`
	MaxResponseTokens  int       `json:"max_response_tokens"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}
