// Package analysis orchestrates per-chunk model analysis of an ingested
// repository and drives the job state machine to a terminal state.
package analysis

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited is a transient model-backend signal; the orchestrator
	// retries the chunk with backoff.
	ErrRateLimited = errors.New("model rate limited")

	// ErrAuth means the model credentials are invalid. Unrecoverable; the
	// whole job fails regardless of retries.
	ErrAuth = errors.New("model authentication failed")
)

// ChunkRequest is one analysis request: a chunk's content plus its
// position so the model knows it sees a partial view.
type ChunkRequest struct {
	Index   int
	Total   int
	Content string
}

// ModelClient issues one analysis request and returns the raw model text,
// expected (but not guaranteed) to parse as a JSON insight array.
type ModelClient interface {
	AnalyzeChunk(ctx context.Context, req ChunkRequest) (string, error)
}
