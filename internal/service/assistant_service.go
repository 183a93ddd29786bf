package service

import (
	"context"

	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/internal/repository/contract"
	"voice-ai-be/pkg/llm"
)

const (
	// NoKnowledgeBaseMessage is the normal (non-error) reply for a session
	// that has no documents yet. The LLM is never invoked in that state.
	NoKnowledgeBaseMessage = "Please upload and process documents first."

	// GenericFailureMessage hides vendor error detail from the caller on this
	// path. The detail goes to the logs only.
	GenericFailureMessage = "An error occurred while processing your request."

	answerInstructions = `You are a helpful assistant that only answers questions based on the ` +
		`documents provided. If the question cannot be answered using the documents or is outside ` +
		`their scope, respond with "I don't know" or "I cannot answer this question based on the ` +
		`documents provided." Do not use any knowledge outside of the provided documents.`
)

type IAssistantService interface {
	// Answer generates a reply grounded in the session's knowledge base.
	// Failures never propagate: the caller always receives displayable text.
	Answer(ctx context.Context, sessionID, userInput string) string

	// Status probes the LLM vendor.
	Status(ctx context.Context) error
}

type assistantService struct {
	provider llm.Provider
	sessions contract.SessionRepository
	model    string
	logger   logger.ILogger
}

func NewAssistantService(provider llm.Provider, sessions contract.SessionRepository, model string, log logger.ILogger) IAssistantService {
	return &assistantService{
		provider: provider,
		sessions: sessions,
		model:    model,
		logger:   log,
	}
}

func (s *assistantService) Answer(ctx context.Context, sessionID, userInput string) string {
	indexID, err := s.sessions.GetKnowledgeBase(ctx, sessionID)
	if err != nil {
		s.logger.Error("AssistantService", "Session lookup failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return GenericFailureMessage
	}
	if indexID == "" {
		return NoKnowledgeBaseMessage
	}

	// Temperature 0: identical input and index state yield identical answers.
	response, err := s.provider.Respond(ctx, llm.Request{
		Model:          s.model,
		Instructions:   answerInstructions,
		Input:          userInput,
		VectorStoreIDs: []string{indexID},
		Temperature:    0,
	})
	if err != nil {
		s.logger.Error("AssistantService", "LLM call failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return GenericFailureMessage
	}
	return response
}

func (s *assistantService) Status(ctx context.Context) error {
	return s.provider.Ping(ctx)
}
