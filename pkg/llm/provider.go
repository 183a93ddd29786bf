package llm

import (
	"context"
)

// Request describes one retrieval-grounded generation call in a
// provider-agnostic format.
type Request struct {
	Model          string
	Instructions   string
	Input          string
	VectorStoreIDs []string
	Temperature    float64
}

// Provider defines the contract for any hosted LLM backend with file search.
type Provider interface {
	// Respond runs a single-turn generation and returns the output text.
	Respond(ctx context.Context, req Request) (string, error)

	// Ping checks that the backend is reachable with the configured credentials.
	Ping(ctx context.Context) error
}

// IndexManager manages vendor-side retrieval indexes (vector stores) and the
// documents attached to them.
type IndexManager interface {
	CreateIndex(ctx context.Context, name string) (string, error)
	UploadDocument(ctx context.Context, filename string, content []byte) (string, error)
	AttachDocument(ctx context.Context, indexID, documentID string) error
	RemoveDocument(ctx context.Context, indexID, documentID string) error
}
