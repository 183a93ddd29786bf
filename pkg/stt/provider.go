package stt

import (
	"context"
)

// Provider defines the contract for any speech-to-text backend.
type Provider interface {
	// Transcribe converts raw audio bytes into text.
	Transcribe(ctx context.Context, audio []byte) (string, error)

	// Ping checks that the backend is reachable with the configured credentials.
	Ping(ctx context.Context) error
}

// JobError is a terminal failure reported by the transcription service for a
// submitted job, as opposed to a transport or HTTP-level failure. It carries
// the upstream error text verbatim.
type JobError struct {
	Detail string
}

func (e *JobError) Error() string {
	return e.Detail
}
