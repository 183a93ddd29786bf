package memory

import (
	"context"
	"sync"
	"time"

	"voice-ai-be/internal/entity"
	"voice-ai-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// sessionRecord is the in-memory equivalent of the Redis key triple.
type sessionRecord struct {
	knowledgeBase string
	files         map[string]string // document id -> filename
	hashes        map[string]string // content hash -> document id
}

// SessionRepository is a go-cache backed store used by tests and by local
// development without Redis.
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	// Purge expired sessions every 10 minutes; per-entry TTL comes from the
	// caller via BindKnowledgeBase.
	return &SessionRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) get(sessionID string) (*sessionRecord, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*sessionRecord), true
	}
	return nil, false
}

func (r *SessionRepository) GetKnowledgeBase(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, found := r.get(sessionID); found {
		return rec.knowledgeBase, nil
	}
	return "", nil
}

func (r *SessionRepository) BindKnowledgeBase(_ context.Context, sessionID, indexID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, found := r.get(sessionID)
	if !found {
		rec = &sessionRecord{
			files:  make(map[string]string),
			hashes: make(map[string]string),
		}
	}
	rec.knowledgeBase = indexID
	r.cache.Set(sessionID, rec, ttl)
	return nil
}

func (r *SessionRepository) Touch(_ context.Context, sessionID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, found := r.get(sessionID); found {
		r.cache.Set(sessionID, rec, ttl)
	}
	return nil
}

func (r *SessionRepository) GetDocumentIDByHash(_ context.Context, sessionID, hash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, found := r.get(sessionID); found {
		return rec.hashes[hash], nil
	}
	return "", nil
}

func (r *SessionRepository) SaveDocument(_ context.Context, sessionID string, doc *entity.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, found := r.get(sessionID)
	if !found {
		return nil
	}
	rec.files[doc.ID] = doc.Filename
	rec.hashes[doc.Hash] = doc.ID
	return nil
}

func (r *SessionRepository) DeleteDocument(_ context.Context, sessionID, hash, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, found := r.get(sessionID); found {
		delete(rec.files, documentID)
		delete(rec.hashes, hash)
	}
	return nil
}
