package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type RenameConversationRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type RateMessageRequest struct {
	MessageId uuid.UUID `json:"message_id" validate:"required"`
	Helpful   *bool     `json:"helpful" validate:"required"`
}

type ConversationResponse struct {
	UrlId     string     `json:"url_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// MessageResponse is one exchange: the user message and the agent
// reply persisted as a single turn.
type MessageResponse struct {
	Id           uuid.UUID `json:"id"`
	UserMessage  string    `json:"user_message"`
	AgentMessage string    `json:"agent_message"`
	Helpful      *bool     `json:"helpful,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChatResponse is returned by both conversation start and follow-up
// messages: the persisted exchange on its conversation.
type ChatResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Exchange     MessageResponse      `json:"exchange"`
	// QuotaAlert is set when the remaining message count crossed one of
	// the configured thresholds, nil otherwise.
	QuotaAlert *QuotaAlert `json:"quota_alert,omitempty"`
}

type QuotaAlert struct {
	Remaining int `json:"remaining"`
	Threshold int `json:"threshold"`
}
