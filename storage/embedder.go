package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/policylens/ai"
)

// CachingEmbedder serves embeddings from an EmbeddingCache and forwards
// misses to an upstream Embedder in one batch. Entries are namespaced by
// model so vectors from different models never mix.
type CachingEmbedder struct {
	next   ai.Embedder
	cache  EmbeddingCache
	model  string
	logger *slog.Logger
}

var _ ai.Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with cache under model.
func NewCachingEmbedder(next ai.Embedder, cache EmbeddingCache, model string) (*CachingEmbedder, error) {
	if next == nil {
		return nil, ai.ErrEmbedderRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}
	return &CachingEmbedder{
		next:   next,
		cache:  cache,
		model:  model,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

// EmbedText embeds a single text.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts returns cached vectors and embeds the rest.
// Each distinct missing text is sent upstream once.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	out, err := c.cache.GetEmbeddings(ctx, c.model, texts)
	if err != nil {
		return nil, fmt.Errorf("reading embedding cache: %w", err)
	}

	var missing []string
	positions := make(map[string][]int)
	for i, v := range out {
		if v != nil {
			continue
		}
		if _, seen := positions[texts[i]]; !seen {
			missing = append(missing, texts[i])
		}
		positions[texts[i]] = append(positions[texts[i]], i)
	}
	c.logger.Debug("cache lookup", "texts", len(texts), "misses", len(missing))
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.next.EmbedTexts(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts", ErrLengthMismatch, len(vectors), len(missing))
	}
	for i, text := range missing {
		for _, pos := range positions[text] {
			out[pos] = vectors[i]
		}
	}

	if err := c.cache.PutEmbeddings(ctx, c.model, missing, vectors); err != nil {
		// A failed write only costs a recomputation later.
		c.logger.Warn("failed to store embeddings", "err", err)
	}
	return out, nil
}
