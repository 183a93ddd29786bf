package service

import (
	"context"
	"errors"

	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/stt"
)

type ITranscriptionService interface {
	// Transcribe converts raw audio bytes into text.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Status probes the transcription vendor.
	Status(ctx context.Context) error
}

type transcriptionService struct {
	provider stt.Provider
	logger   logger.ILogger
}

func NewTranscriptionService(provider stt.Provider, log logger.ILogger) ITranscriptionService {
	return &transcriptionService{
		provider: provider,
		logger:   log,
	}
}

func (s *transcriptionService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	text, err := s.provider.Transcribe(ctx, audio)
	if err != nil {
		s.logger.Error("TranscriptionService", "Transcription failed", map[string]interface{}{"error": err.Error()})

		// A terminal job error carries the upstream error text verbatim.
		var jobErr *stt.JobError
		if errors.As(err, &jobErr) {
			return "", apperrors.Wrap(apperrors.KindTranscriptionJob, jobErr.Detail, err)
		}
		return "", apperrors.Wrap(apperrors.KindUpstreamCall, err.Error(), err)
	}
	return text, nil
}

func (s *transcriptionService) Status(ctx context.Context) error {
	return s.provider.Ping(ctx)
}
