package memory

import (
	"context"
	"testing"
	"time"

	"voice-ai-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestUnknownSessionIsAbsentNotAnError(t *testing.T) {
	repo := NewSessionRepository()

	indexID, err := repo.GetKnowledgeBase(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Empty(t, indexID)

	docID, err := repo.GetDocumentIDByHash(context.Background(), "nobody", "deadbeef")
	assert.NoError(t, err)
	assert.Empty(t, docID)
}

func TestBindAndLookupKnowledgeBase(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.BindKnowledgeBase(ctx, "session-1", "vs_abc", time.Hour))

	indexID, err := repo.GetKnowledgeBase(ctx, "session-1")
	assert.NoError(t, err)
	assert.Equal(t, "vs_abc", indexID)
}

func TestDocumentMappingsRoundTrip(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.BindKnowledgeBase(ctx, "session-1", "vs_abc", time.Hour))
	assert.NoError(t, repo.SaveDocument(ctx, "session-1", &entity.DocumentRecord{
		ID:       "file_abc",
		Filename: "report.pdf",
		Hash:     "deadbeef",
	}))

	docID, err := repo.GetDocumentIDByHash(ctx, "session-1", "deadbeef")
	assert.NoError(t, err)
	assert.Equal(t, "file_abc", docID)

	assert.NoError(t, repo.DeleteDocument(ctx, "session-1", "deadbeef", "file_abc"))

	docID, err = repo.GetDocumentIDByHash(ctx, "session-1", "deadbeef")
	assert.NoError(t, err)
	assert.Empty(t, docID)
}

func TestSessionExpires(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.BindKnowledgeBase(ctx, "session-1", "vs_abc", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	indexID, err := repo.GetKnowledgeBase(ctx, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, indexID, "expired sessions read as absent")
}

func TestTouchRenewsTTL(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	assert.NoError(t, repo.BindKnowledgeBase(ctx, "session-1", "vs_abc", 40*time.Millisecond))
	time.Sleep(25 * time.Millisecond)
	assert.NoError(t, repo.Touch(ctx, "session-1", time.Hour))
	time.Sleep(40 * time.Millisecond)

	indexID, err := repo.GetKnowledgeBase(ctx, "session-1")
	assert.NoError(t, err)
	assert.Equal(t, "vs_abc", indexID, "a touched session outlives its original TTL")
}
