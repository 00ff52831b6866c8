package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/storage"
)

// DefaultBatchSize is the number of passages embedded per provider call.
const DefaultBatchSize = 32

// Indexer embeds document lines and stores them as passages.
type Indexer struct {
	repo      storage.PassageRepository
	embedder  ai.Embedder
	batchSize int
	progress  io.Writer
	logger    *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer) error

// WithBatchSize sets how many passages are embedded per call.
// Default is DefaultBatchSize.
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) error {
		if n < 1 {
			return ErrInvalidBatchSize
		}
		ix.batchSize = n
		return nil
	}
}

// WithProgress writes indexing progress to w.
func WithProgress(w io.Writer) IndexerOption {
	return func(ix *Indexer) error {
		ix.progress = w
		return nil
	}
}

// WithIndexerLogger sets a custom logger.
// Default is slog.Default().
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates a new indexer.
func NewIndexer(repo storage.PassageRepository, embedder ai.Embedder, opts ...IndexerOption) (*Indexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ai.ErrEmbedderRequired
	}

	ix := &Indexer{
		repo:      repo,
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Checksum fingerprints the lines of a document.
func Checksum(lines []string) core.ID {
	return core.IDFromContent(strings.Join(lines, "\n"))
}

// Index stores the non-empty lines of a document as passages.
// The returned bool is false when the document was already indexed with the
// same content and nothing was written. A changed document replaces its
// previous passages.
func (ix *Indexer) Index(ctx context.Context, docName string, lines []string) (*core.IndexedDocument, bool, error) {
	checksum := Checksum(lines)
	existing, err := ix.repo.GetIndexedDocument(ctx, docName)
	switch {
	case err == nil && existing.Checksum == checksum:
		ix.logger.Debug("document unchanged, skipping", "document", docName)
		return existing, false, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}

	// A failed run leaves passages behind without an index record.
	removed, err := ix.repo.DeleteDocument(ctx, docName)
	if err != nil {
		return nil, false, fmt.Errorf("removing stale passages of %s: %w", docName, err)
	}
	if removed > 0 {
		ix.logger.Info("replacing passages", "document", docName, "removed", removed)
	}

	passages := make([]*core.Passage, 0, len(lines))
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		passages = append(passages, &core.Passage{Document: docName, Ordinal: i, Text: text})
	}

	var tracker *ProgressTracker
	if ix.progress != nil {
		tracker = NewProgressTracker(ix.progress, len(passages), ix.batchSize)
		tracker.Start()
	}

	for start := 0; start < len(passages); start += ix.batchSize {
		batch := passages[start:min(start+ix.batchSize, len(passages))]
		if err := ix.processBatch(ctx, batch); err != nil {
			return nil, false, fmt.Errorf("indexing %s: %w", docName, err)
		}
		if tracker != nil {
			tracker.Increment(len(batch))
		}
	}
	if tracker != nil {
		tracker.Finish()
	}

	record := &core.IndexedDocument{
		Name:      docName,
		Checksum:  checksum,
		Passages:  len(passages),
		IndexedAt: time.Now().UTC(),
	}
	if err := ix.repo.SaveIndexedDocument(ctx, record); err != nil {
		return nil, false, err
	}
	ix.logger.Info("indexed document", "document", docName, "passages", len(passages))
	return record, true, nil
}

// processBatch embeds a batch of passages and stores them.
// Vectors are normalized so inner products are cosine similarities.
func (ix *Indexer) processBatch(ctx context.Context, passages []*core.Passage) error {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	embeddings, err := ix.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(passages) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(passages), len(embeddings))
	}

	for i := range passages {
		passages[i].Vector = core.NormalizeVector(embeddings[i])
	}

	if _, err := ix.repo.AddPassages(ctx, passages...); err != nil {
		return fmt.Errorf("failed to store passages: %w", err)
	}
	return nil
}
