package service

import (
	"context"
	"errors"
	"testing"

	"voice-ai-be/internal/pkg/apperrors"
	"voice-ai-be/pkg/stt"

	"github.com/stretchr/testify/assert"
)

type fakeSTT struct {
	text    string
	err     error
	pingErr error
	audio   []byte
}

func (f *fakeSTT) Transcribe(_ context.Context, audio []byte) (string, error) {
	f.audio = audio
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeSTT) Ping(context.Context) error {
	return f.pingErr
}

func TestTranscribePassesAudioThrough(t *testing.T) {
	provider := &fakeSTT{text: "hello world"}
	svc := NewTranscriptionService(provider, &nopLogger{})

	text, err := svc.Transcribe(context.Background(), []byte{0x01, 0x02})

	assert.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, []byte{0x01, 0x02}, provider.audio)
}

func TestTranscribeClassifiesJobFailure(t *testing.T) {
	provider := &fakeSTT{err: &stt.JobError{Detail: "audio file too short"}}
	svc := NewTranscriptionService(provider, &nopLogger{})

	_, err := svc.Transcribe(context.Background(), []byte("riff"))

	assert.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.KindTranscriptionJob, kind)

	var appErr *apperrors.Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "audio file too short", appErr.Detail)
}

func TestTranscribeClassifiesTransportFailure(t *testing.T) {
	provider := &fakeSTT{err: errors.New("upload returned status 502")}
	svc := NewTranscriptionService(provider, &nopLogger{})

	_, err := svc.Transcribe(context.Background(), []byte("riff"))

	assert.Error(t, err)
	kind, ok := apperrors.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, apperrors.KindUpstreamCall, kind)
}
