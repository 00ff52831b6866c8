package ai

import "errors"

var (
	// ErrEmbeddingTimeout is returned when the embedding provider does not
	// answer within the configured timeout.
	ErrEmbeddingTimeout = errors.New("embedding request timed out")

	// ErrEmbedderRequired is returned when a nil Embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder required")
)
