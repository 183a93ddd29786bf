package events

import "time"

const (
	TypeDocumentIngested = "DOCUMENT_INGESTED"
	TypeDocumentDeleted  = "DOCUMENT_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INGESTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

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

// NewDocumentIngested describes one document that entered a session's
// knowledge base.
func NewDocumentIngested(sessionID, filename, documentID string) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"filename":   filename,
			"file_id":    documentID,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeleted describes one document removed from a session's
// knowledge base.
func NewDocumentDeleted(sessionID, filename, documentID string) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"filename":   filename,
			"file_id":    documentID,
		},
		OccurredAt: time.Now(),
	}
}
