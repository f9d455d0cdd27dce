package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "MESSAGE_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic Event implementation used across the app.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published on the audit stream.
const (
	TypeMessageCreated    = "MESSAGE_CREATED"
	TypeCollectionCreated = "COLLECTION_CREATED"
	TypeCollectionDeleted = "COLLECTION_DELETED"
	TypeDocumentIngested  = "DOCUMENT_INGESTED"
	TypeDocumentRetracted = "DOCUMENT_RETRACTED"
	TypeStoreSynced       = "STORE_SYNCED"
)
