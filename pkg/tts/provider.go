package tts

import (
	"context"
	"io"
)

// Provider defines the contract for any text-to-speech backend.
type Provider interface {
	// Synthesize converts text into one audio buffer.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// SynthesizeStream converts text into audio delivered as a byte stream.
	// The caller must close the returned reader. Chunks are forwarded exactly
	// as received from the vendor, with no re-chunking.
	SynthesizeStream(ctx context.Context, text string) (io.ReadCloser, error)
}
