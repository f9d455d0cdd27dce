package llm

import (
	"context"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Completion is a model response plus the token accounting the
// conversation service persists on the conversation.
type Completion struct {
	Content          string
	PromptTokens     int64
	CompletionTokens int64
}

// ModelError is returned when the upstream model API answers with a
// non-success status. The status and message survive so the error
// handler can relay them.
type ModelError struct {
	StatusCode int
	Message    string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error: status %d: %s", e.StatusCode, e.Message)
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend.
type Provider interface {
	// Chat sends a chat history to the model and returns the response
	// with usage counts.
	Chat(ctx context.Context, history []Message, options ...Option) (*Completion, error)

	// Generate sends a single prompt to the model (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (*Completion, error)
}
