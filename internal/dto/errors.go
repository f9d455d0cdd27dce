package dto

import (
	"fmt"
	"time"
)

// QuotaExceededError carries the usage details the client needs to
// render a retry hint. RetryAfterHours is an estimate rounded up to
// whole hours; it is zero when the quota itself is zero and retrying
// can never succeed.
type QuotaExceededError struct {
	Quota           int       `json:"quota"`
	Used            int       `json:"used"`
	RetryAfterHours int       `json:"retry_after_hours"`
	RetryAt         time.Time `json:"retry_at,omitempty"`
}

func (e *QuotaExceededError) Error() string {
	if e.Quota == 0 {
		return "chat quota is disabled for this user"
	}
	return fmt.Sprintf("chat quota of %d messages per 24h exceeded, retry in about %d hour(s)", e.Quota, e.RetryAfterHours)
}

// UpstreamModelError wraps a failure reported by the model API so the
// original status and message survive to the response.
type UpstreamModelError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *UpstreamModelError) Error() string {
	return fmt.Sprintf("upstream model error (status %d): %s", e.StatusCode, e.Message)
}

// NotFoundError marks a missing resource. Resource names the kind
// ("conversation", "collection"...), not the identifier.
type NotFoundError struct {
	Resource string `json:"resource"`
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// OwnershipError is returned when a caller addresses a resource that
// exists but belongs to another user or module.
type OwnershipError struct {
	Resource string `json:"resource"`
}

func (e *OwnershipError) Error() string {
	return "access to this " + e.Resource + " is not allowed"
}

// ValidationError carries a request-level validation failure outside
// the struct-tag validator (e.g. message length).
type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExtractionError is returned when text extraction from an uploaded
// file fails or yields nothing embeddable.
type ExtractionError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from %s: %s", e.FileName, e.Reason)
}

// EmbeddingStoreError is returned when the vector store rejects a
// write during ingestion and the operation was rolled back.
type EmbeddingStoreError struct {
	Collection string `json:"collection"`
	Reason     string `json:"reason"`
}

func (e *EmbeddingStoreError) Error() string {
	return fmt.Sprintf("vector store rejected write to %s: %s", e.Collection, e.Reason)
}

// ConflictError marks a uniqueness violation (duplicate collection or
// agent name, conversation already shared...).
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}
