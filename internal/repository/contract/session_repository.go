package contract

import (
	"context"
	"time"

	"voice-ai-be/internal/entity"
)

// SessionRepository persists the session → knowledge base binding and the
// per-session document maps (hash → document id, document id → filename).
type SessionRepository interface {
	// GetKnowledgeBase returns the knowledge base id bound to the session, or
	// an empty string when the session has no knowledge base yet.
	GetKnowledgeBase(ctx context.Context, sessionID string) (string, error)

	// BindKnowledgeBase binds a knowledge base to the session with the given
	// time-to-live. A session holds at most one knowledge base.
	BindKnowledgeBase(ctx context.Context, sessionID, indexID string, ttl time.Duration) error

	// Touch re-arms the session's time-to-live.
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error

	// GetDocumentIDByHash returns the document id recorded for a content
	// hash, or an empty string when the hash is unknown to the session.
	GetDocumentIDByHash(ctx context.Context, sessionID, hash string) (string, error)

	// SaveDocument records both document mappings for the session.
	SaveDocument(ctx context.Context, sessionID string, doc *entity.DocumentRecord) error

	// DeleteDocument removes both document mappings for the session.
	DeleteDocument(ctx context.Context, sessionID, hash, documentID string) error
}
