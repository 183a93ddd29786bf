package implementation

import (
	"context"
	"fmt"
	"time"

	"voice-ai-be/internal/entity"
	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

// Redis key layout:
//
//	<session_id>                      -> knowledge base id (SET with TTL)
//	session:<session_id>:files        -> hash: document id -> filename
//	session:<session_id>:file_hashes  -> hash: content hash -> document id
type sessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) contract.SessionRepository {
	return &sessionRepository{rdb: rdb}
}

func filesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:files", sessionID)
}

func hashesKey(sessionID string) string {
	return fmt.Sprintf("session:%s:file_hashes", sessionID)
}

func (r *sessionRepository) GetKnowledgeBase(ctx context.Context, sessionID string) (string, error) {
	val, err := r.rdb.Get(ctx, sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to read session", err)
	}
	return val, nil
}

func (r *sessionRepository) BindKnowledgeBase(ctx context.Context, sessionID, indexID string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, sessionID, indexID, ttl).Err(); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to bind knowledge base", err)
	}
	return nil
}

// Touch re-arms the TTL on the binding and both document maps so active
// sessions do not expire mid-conversation.
func (r *sessionRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	pipe := r.rdb.Pipeline()
	pipe.Expire(ctx, sessionID, ttl)
	pipe.Expire(ctx, filesKey(sessionID), ttl)
	pipe.Expire(ctx, hashesKey(sessionID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to renew session", err)
	}
	return nil
}

func (r *sessionRepository) GetDocumentIDByHash(ctx context.Context, sessionID, hash string) (string, error) {
	val, err := r.rdb.HGet(ctx, hashesKey(sessionID), hash).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to read document hash", err)
	}
	return val, nil
}

func (r *sessionRepository) SaveDocument(ctx context.Context, sessionID string, doc *entity.DocumentRecord) error {
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, filesKey(sessionID), doc.ID, doc.Filename)
	pipe.HSet(ctx, hashesKey(sessionID), doc.Hash, doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to save document record", err)
	}
	return nil
}

func (r *sessionRepository) DeleteDocument(ctx context.Context, sessionID, hash, documentID string) error {
	pipe := r.rdb.Pipeline()
	pipe.HDel(ctx, filesKey(sessionID), documentID)
	pipe.HDel(ctx, hashesKey(sessionID), hash)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindStoreUnavailable, "failed to delete document record", err)
	}
	return nil
}
