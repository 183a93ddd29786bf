package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/entity"
	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/repository/contract"
	"voice-ai-be/pkg/events"
	"voice-ai-be/pkg/llm"

	"github.com/google/uuid"
)

// IngestFile is one file of an upload batch, fully read into memory.
type IngestFile struct {
	Filename string
	Content  []byte
}

type IKnowledgeService interface {
	// Ingest deduplicates the batch by content hash and registers new
	// documents with the session's knowledge base, creating it on first use.
	// Individual file failures are reported per-file; only knowledge base
	// creation or store failures abort the batch.
	Ingest(ctx context.Context, sessionID string, files []IngestFile) (*dto.UploadResponse, error)

	// Delete removes one document by content hash: local mappings first,
	// then best-effort vendor-side removal.
	Delete(ctx context.Context, sessionID, filename, fileHash string) error
}

type knowledgeService struct {
	sessions   contract.SessionRepository
	index      llm.IndexManager
	publisher  IPublisherService
	sessionTTL time.Duration
	logger     logger.ILogger

	// One mutex per session serializes concurrent batches so two uploads
	// cannot race to create two knowledge bases for one session.
	locks sync.Map
}

func NewKnowledgeService(
	sessions contract.SessionRepository,
	index llm.IndexManager,
	publisher IPublisherService,
	sessionTTL time.Duration,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		sessions:   sessions,
		index:      index,
		publisher:  publisher,
		sessionTTL: sessionTTL,
		logger:     log,
	}
}

func (s *knowledgeService) lockFor(sessionID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (s *knowledgeService) Ingest(ctx context.Context, sessionID string, files []IngestFile) (*dto.UploadResponse, error) {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	indexID, err := s.sessions.GetKnowledgeBase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if indexID == "" {
		indexID, err = s.index.CreateIndex(ctx, "knowledge_base_"+uuid.New().String())
		if err != nil {
			s.logger.Error("KnowledgeService", "Knowledge base creation failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
			return nil, apperrors.Wrap(apperrors.KindIndexCreation, "failed to create vector store", err)
		}
		if err := s.sessions.BindKnowledgeBase(ctx, sessionID, indexID, s.sessionTTL); err != nil {
			return nil, err
		}
	} else {
		// Active sessions stay alive: ingestion re-arms the TTL.
		if err := s.sessions.Touch(ctx, sessionID, s.sessionTTL); err != nil {
			s.logger.Warn("KnowledgeService", "Failed to renew session TTL", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	results := make([]dto.FileResult, 0, len(files))
	ingested := 0

	for _, file := range files {
		result := s.ingestOne(ctx, sessionID, indexID, file)
		if result.Status == dto.FileStatusIngested {
			ingested++
		}
		results = append(results, result)
	}

	return &dto.UploadResponse{
		Message:   fmt.Sprintf("Successfully uploaded %d new file(s)", ingested),
		SessionID: sessionID,
		Files:     results,
	}, nil
}

func (s *knowledgeService) ingestOne(ctx context.Context, sessionID, indexID string, file IngestFile) dto.FileResult {
	hash := HashContent(file.Content)
	result := dto.FileResult{
		Filename: file.Filename,
		Hash:     hash,
	}

	existingID, err := s.sessions.GetDocumentIDByHash(ctx, sessionID, hash)
	if err != nil {
		result.Status = dto.FileStatusFailed
		result.Error = err.Error()
		return result
	}
	if existingID != "" {
		// Byte-identical content: keep the existing remote document.
		result.Status = dto.FileStatusDuplicate
		result.FileID = existingID
		return result
	}

	documentID, err := s.index.UploadDocument(ctx, file.Filename, file.Content)
	if err != nil {
		s.logger.Error("KnowledgeService", "Document upload failed", map[string]interface{}{
			"session_id": sessionID,
			"filename":   file.Filename,
			"error":      err.Error(),
		})
		result.Status = dto.FileStatusFailed
		result.Error = err.Error()
		return result
	}

	if err := s.index.AttachDocument(ctx, indexID, documentID); err != nil {
		s.logger.Error("KnowledgeService", "Document attach failed", map[string]interface{}{
			"session_id": sessionID,
			"filename":   file.Filename,
			"file_id":    documentID,
			"error":      err.Error(),
		})
		result.Status = dto.FileStatusFailed
		result.Error = err.Error()
		return result
	}

	if err := s.sessions.SaveDocument(ctx, sessionID, &entity.DocumentRecord{
		ID:       documentID,
		Filename: file.Filename,
		Hash:     hash,
	}); err != nil {
		result.Status = dto.FileStatusFailed
		result.Error = err.Error()
		return result
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewDocumentIngested(sessionID, file.Filename, documentID)); err != nil {
			s.logger.Warn("KnowledgeService", "Failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}

	result.Status = dto.FileStatusIngested
	result.FileID = documentID
	return result
}

func (s *knowledgeService) Delete(ctx context.Context, sessionID, filename, fileHash string) error {
	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	indexID, err := s.sessions.GetKnowledgeBase(ctx, sessionID)
	if err != nil {
		return err
	}
	if indexID == "" {
		return apperrors.New(apperrors.KindNotFound, "Vector store not found")
	}

	documentID, err := s.sessions.GetDocumentIDByHash(ctx, sessionID, fileHash)
	if err != nil {
		return err
	}
	if documentID == "" {
		return apperrors.New(apperrors.KindNotFound, "File not found")
	}

	// Local mappings go first so a crash cannot leave local state pointing at
	// a removed remote document. Remote removal is best-effort.
	if err := s.sessions.DeleteDocument(ctx, sessionID, fileHash, documentID); err != nil {
		return err
	}

	if err := s.index.RemoveDocument(ctx, indexID, documentID); err != nil {
		s.logger.Warn("KnowledgeService", "Remote document removal failed", map[string]interface{}{
			"session_id": sessionID,
			"file_id":    documentID,
			"error":      err.Error(),
		})
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewDocumentDeleted(sessionID, filename, documentID)); err != nil {
			s.logger.Warn("KnowledgeService", "Failed to publish delete event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}
