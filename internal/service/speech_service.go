package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"time"

	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/internal/pkg/logger"
	"voice-ai-be/pkg/tts"

	"github.com/patrickmn/go-cache"
)

type ISpeechService interface {
	// Synthesize converts text into one audio buffer.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// SynthesizeStream converts text into a byte stream forwarded from the
	// vendor as-is. Each call re-invokes the vendor; streams are not cached.
	SynthesizeStream(ctx context.Context, text string) (io.ReadCloser, error)
}

type speechService struct {
	provider tts.Provider
	cache    *cache.Cache
	logger   logger.ILogger
}

func NewSpeechService(provider tts.Provider, log logger.ILogger) ISpeechService {
	// Repeated utterances (the fixed fallback replies in particular) skip the
	// vendor round-trip for a short window.
	return &speechService{
		provider: provider,
		cache:    cache.New(10*time.Minute, 5*time.Minute),
		logger:   log,
	}
}

func cacheKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (s *speechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	key := cacheKey(text)
	if x, found := s.cache.Get(key); found {
		return x.([]byte), nil
	}

	audio, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		s.logger.Error("SpeechService", "Synthesis failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.Wrap(apperrors.KindSynthesis, err.Error(), err)
	}

	s.cache.Set(key, audio, cache.DefaultExpiration)
	return audio, nil
}

func (s *speechService) SynthesizeStream(ctx context.Context, text string) (io.ReadCloser, error) {
	stream, err := s.provider.SynthesizeStream(ctx, text)
	if err != nil {
		s.logger.Error("SpeechService", "Streaming synthesis failed", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.Wrap(apperrors.KindSynthesis, err.Error(), err)
	}
	return stream, nil
}
