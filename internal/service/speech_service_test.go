package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"voice-ai-be/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

type fakeTTS struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeTTS) Synthesize(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func (f *fakeTTS) SynthesizeStream(_ context.Context, _ string) (io.ReadCloser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(string(f.audio))), nil
}

func TestSynthesizeCachesRepeatedText(t *testing.T) {
	provider := &fakeTTS{audio: []byte("mp3-bytes")}
	svc := NewSpeechService(provider, &nopLogger{})

	first, err := svc.Synthesize(context.Background(), "hello")
	assert.NoError(t, err)
	second, err := svc.Synthesize(context.Background(), "hello")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls, "repeated text must not re-invoke the vendor")
}

func TestSynthesizeDistinctTextMisses(t *testing.T) {
	provider := &fakeTTS{audio: []byte("mp3-bytes")}
	svc := NewSpeechService(provider, &nopLogger{})

	_, err := svc.Synthesize(context.Background(), "hello")
	assert.NoError(t, err)
	_, err = svc.Synthesize(context.Background(), "goodbye")
	assert.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}

func TestSynthesizeWrapsVendorFailure(t *testing.T) {
	provider := &fakeTTS{err: errors.New("voice not found")}
	svc := NewSpeechService(provider, &nopLogger{})

	_, err := svc.Synthesize(context.Background(), "hello")

	assert.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.KindSynthesis, kind)
}

func TestSynthesizeStreamBypassesCache(t *testing.T) {
	provider := &fakeTTS{audio: []byte("mp3-bytes")}
	svc := NewSpeechService(provider, &nopLogger{})

	for i := 0; i < 2; i++ {
		stream, err := svc.SynthesizeStream(context.Background(), "hello")
		assert.NoError(t, err)
		data, err := io.ReadAll(stream)
		assert.NoError(t, err)
		assert.Equal(t, "mp3-bytes", string(data))
		assert.NoError(t, stream.Close())
	}

	assert.Equal(t, 2, provider.calls, "streams are never cached")
}
