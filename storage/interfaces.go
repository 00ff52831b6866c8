package storage

import (
	"context"

	"github.com/poiesic/policylens/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// EmbeddingCache stores embedding vectors keyed by model and text.
type EmbeddingCache interface {
	Repository

	// GetEmbeddings looks up vectors for texts embedded by model.
	// The result has one entry per text; missing entries are nil.
	GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error)

	// PutEmbeddings stores vectors[i] as the embedding of texts[i] under model.
	PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error
}

// PassageRepository provides operations for the semantic search index.
type PassageRepository interface {
	Repository

	// AddPassages adds passages to storage.
	// Passages with Id=0 get a new ID from a sequence.
	// Returns the passages with IDs populated.
	AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error)

	// GetPassage retrieves a single passage by ID.
	// Returns ErrNotFound if the passage doesn't exist.
	GetPassage(ctx context.Context, id core.ID) (*core.Passage, error)

	// GetPassagesByDocument returns the passages of a document ordered by ordinal.
	GetPassagesByDocument(ctx context.Context, document string) ([]*core.Passage, error)

	// DeleteDocument removes every passage of a document and its index record.
	// Returns the number of passages removed.
	DeleteDocument(ctx context.Context, document string) (int, error)

	// CountPassages returns the number of stored passages.
	CountPassages(ctx context.Context) (int, error)

	// FindSimilar finds passages similar to the given vector.
	// Returns passages with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.PassageResult, error)

	// SaveIndexedDocument records the index state of a document.
	SaveIndexedDocument(ctx context.Context, doc *core.IndexedDocument) error

	// GetIndexedDocument returns the index state of a document.
	// Returns ErrNotFound if the document was never indexed.
	GetIndexedDocument(ctx context.Context, name string) (*core.IndexedDocument, error)

	// ListIndexedDocuments returns the index state of every document, ordered by name.
	ListIndexedDocuments(ctx context.Context) ([]*core.IndexedDocument, error)
}
