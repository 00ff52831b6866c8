// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package correlate

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/core"
)

// scoreTolerance absorbs float32 rounding at the edges of the score range.
const scoreTolerance = 1e-4

// KeywordCorrelator scores candidate texts against a fixed keyword set.
//
// The keyword phrases are embedded once at construction. Each scoring call
// embeds the candidates in a single batch, computes every keyword/candidate
// inner product and keeps the maximum per candidate, so a candidate is
// scored against its single best-matching keyword.
//
// A KeywordCorrelator is read-only after construction and may be shared
// between goroutines as long as its Embedder is.
type KeywordCorrelator struct {
	embedder   ai.Embedder
	keywords   core.KeywordSet
	matrix     [][]float32
	dim        int
	normalize  bool
	scoreRange *core.ScoreRange
	logger     *slog.Logger
}

// Option configures a KeywordCorrelator.
type Option func(*KeywordCorrelator) error

// WithNormalize unit-normalizes keyword and candidate vectors so scores are
// cosine similarities in [-1, 1].
func WithNormalize(normalize bool) Option {
	return func(c *KeywordCorrelator) error {
		c.normalize = normalize
		return nil
	}
}

// WithScoreRange sets the range every score must fall in.
// Default is core.CosineRange when normalizing and core.UnboundedRange otherwise.
func WithScoreRange(r core.ScoreRange) Option {
	return func(c *KeywordCorrelator) error {
		if err := r.Validate(); err != nil {
			return err
		}
		c.scoreRange = &r
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *KeywordCorrelator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewKeywordCorrelator embeds keywords with embedder and returns a
// correlator over them. The embedder stays owned by the caller.
func NewKeywordCorrelator(ctx context.Context, embedder ai.Embedder, keywords core.KeywordSet, opts ...Option) (*KeywordCorrelator, error) {
	if embedder == nil {
		return nil, ai.ErrEmbedderRequired
	}
	if keywords.Len() == 0 {
		return nil, core.ErrEmptyKeywordSet
	}

	c := &KeywordCorrelator{
		embedder: embedder,
		keywords: keywords,
		logger:   slog.Default().With("component", "correlator"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.scoreRange == nil {
		r := core.UnboundedRange
		if c.normalize {
			r = core.CosineRange
		}
		c.scoreRange = &r
	}

	phrases := keywords.Phrases()
	matrix, err := c.embed(ctx, phrases)
	if err != nil {
		return nil, fmt.Errorf("embedding keywords: %w", err)
	}
	c.matrix = matrix
	c.dim = len(matrix[0])

	c.logger.Debug("keyword matrix ready", "keywords", len(phrases), "dimension", c.dim, "normalize", c.normalize)
	return c, nil
}

// Keywords returns the keyword set.
func (c *KeywordCorrelator) Keywords() core.KeywordSet {
	return c.keywords
}

// Dimension returns the embedding dimension.
func (c *KeywordCorrelator) Dimension() int {
	return c.dim
}

// ScoreRange returns the range scores are validated against.
func (c *KeywordCorrelator) ScoreRange() core.ScoreRange {
	return *c.scoreRange
}

// Scores returns one score per candidate, in input order.
// An embedding failure fails the whole call; no partial scores are returned.
func (c *KeywordCorrelator) Scores(ctx context.Context, candidates []string) ([]float32, error) {
	if len(candidates) == 0 {
		return []float32{}, nil
	}

	vectors, err := c.embed(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("embedding candidates: %w", err)
	}

	scores := make([]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != c.dim {
			return nil, fmt.Errorf("%w: candidate %d has %d, keywords have %d", core.ErrDimensionMismatch, i, len(v), c.dim)
		}
		best, err := c.maxScore(v)
		if err != nil {
			return nil, err
		}
		if !c.scoreRange.Contains(best, scoreTolerance) {
			return nil, fmt.Errorf("%w: %v for %q not in [%v, %v]",
				ErrScoreOutOfRange, best, candidates[i], c.scoreRange.Min, c.scoreRange.Max)
		}
		scores[i] = best
	}
	return scores, nil
}

// Correlate scores candidates and pairs each with its text, in input order.
func (c *KeywordCorrelator) Correlate(ctx context.Context, candidates []string) ([]core.Correlation, error) {
	scores, err := c.Scores(ctx, candidates)
	if err != nil {
		return nil, err
	}
	out := make([]core.Correlation, len(scores))
	for i, s := range scores {
		out[i] = core.Correlation{Text: candidates[i], Score: s}
	}
	return out, nil
}

// Ranked scores candidates and orders them by score, highest first.
// Equal scores keep their input order.
func (c *KeywordCorrelator) Ranked(ctx context.Context, candidates []string) ([]core.Correlation, error) {
	out, err := c.Correlate(ctx, candidates)
	if err != nil {
		return nil, err
	}
	sortByScore(out)
	return out, nil
}

// sortByScore orders correlations by score descending, keeping input order
// for equal scores.
func sortByScore(c []core.Correlation) {
	slices.SortStableFunc(c, func(a, b core.Correlation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
}

func (c *KeywordCorrelator) maxScore(v []float32) (float32, error) {
	var best float32
	for k, kw := range c.matrix {
		s, err := core.DotProduct(kw, v)
		if err != nil {
			return 0, err
		}
		if k == 0 || s > best {
			best = s
		}
	}
	return best, nil
}

// embed embeds texts in one batch and checks the shape of the result.
func (c *KeywordCorrelator) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d for %d texts", ErrEmbeddingCountMismatch, len(vectors), len(texts))
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty vector", core.ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d, expected %d", core.ErrDimensionMismatch, i, len(v), dim)
		}
		if c.normalize {
			vectors[i] = core.NormalizeVector(v)
		}
	}
	return vectors, nil
}
