package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"voice-ai-be/internal/repository/memory"
	"voice-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeLLM struct {
	response string
	err      error
	pingErr  error
	requests []llm.Request
}

func (f *fakeLLM) Respond(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Ping(context.Context) error {
	return f.pingErr
}

func TestAnswerWithoutKnowledgeBase(t *testing.T) {
	provider := &fakeLLM{response: "should not be used"}
	svc := NewAssistantService(provider, memory.NewSessionRepository(), "gpt-4o-mini", &nopLogger{})

	answer := svc.Answer(context.Background(), "session-1", "what is in the docs?")

	assert.Equal(t, NoKnowledgeBaseMessage, answer)
	assert.Empty(t, provider.requests, "the LLM must not be called for an empty session")
}

func TestAnswerGroundsOnSessionIndex(t *testing.T) {
	repo := memory.NewSessionRepository()
	err := repo.BindKnowledgeBase(context.Background(), "session-1", "vs_abc", time.Hour)
	assert.NoError(t, err)

	provider := &fakeLLM{response: "The report covers Q3."}
	svc := NewAssistantService(provider, repo, "gpt-4o-mini", &nopLogger{})

	answer := svc.Answer(context.Background(), "session-1", "what does the report cover?")

	assert.Equal(t, "The report covers Q3.", answer)
	assert.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, []string{"vs_abc"}, req.VectorStoreIDs)
	assert.Equal(t, "what does the report cover?", req.Input)
	assert.Zero(t, req.Temperature)
	assert.NotEmpty(t, req.Instructions)
}

func TestAnswerHidesProviderFailure(t *testing.T) {
	repo := memory.NewSessionRepository()
	err := repo.BindKnowledgeBase(context.Background(), "session-1", "vs_abc", time.Hour)
	assert.NoError(t, err)

	provider := &fakeLLM{err: errors.New("responses API returned status 500")}
	svc := NewAssistantService(provider, repo, "gpt-4o-mini", &nopLogger{})

	answer := svc.Answer(context.Background(), "session-1", "hello")

	assert.Equal(t, GenericFailureMessage, answer)
}

func TestAssistantStatus(t *testing.T) {
	healthy := &fakeLLM{}
	svc := NewAssistantService(healthy, memory.NewSessionRepository(), "gpt-4o-mini", &nopLogger{})
	assert.NoError(t, svc.Status(context.Background()))

	down := &fakeLLM{pingErr: errors.New("connection refused")}
	svc = NewAssistantService(down, memory.NewSessionRepository(), "gpt-4o-mini", &nopLogger{})
	assert.Error(t, svc.Status(context.Background()))
}
