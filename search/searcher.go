package search

import (
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
	"github.com/poiesic/policylens/storage"
)

// Searcher ranks stored passages against a query.
type Searcher struct {
	repo          storage.PassageRepository
	embedder      ai.Embedder
	processor     *nlp.Processor
	minSimilarity float32
	verbatimBoost float32
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinSimilarity drops passages scoring below min.
// Default is -1, which keeps every passage.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		if err := core.CosineRange.ValidateThreshold(min); err != nil {
			return err
		}
		s.minSimilarity = min
		return nil
	}
}

// WithVerbatimBoost adds boost to passages containing every content word of
// the query. Default is 0, ranking by similarity alone.
func WithVerbatimBoost(boost float32) Option {
	return func(s *Searcher) error {
		s.verbatimBoost = boost
		return nil
	}
}

// WithProcessor sets the processor used to match query words.
// Default is nlp.NewProcessor().
func WithProcessor(p *nlp.Processor) Option {
	return func(s *Searcher) error {
		if p != nil {
			s.processor = p
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repo storage.PassageRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ai.ErrEmbedderRequired
	}

	s := &Searcher{
		repo:          repo,
		embedder:      embedder,
		minSimilarity: -1,
		logger:        slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.processor == nil {
		s.processor = nlp.NewProcessor()
	}

	return s, nil
}

// Query returns up to topK passages closest to text, best first.
func (s *Searcher) Query(ctx context.Context, text string, topK int) ([]*core.PassageResult, error) {
	return s.QueryWithMonitor(ctx, text, topK, nil)
}

// QueryWithMonitor is Query with callbacks at each stage of the search.
func (s *Searcher) QueryWithMonitor(ctx context.Context, text string, topK int, monitor SearchMonitor) ([]*core.PassageResult, error) {
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(text)

	embedding, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", text, "err", err)
		return nil, err
	}
	query := core.NormalizeVector(embedding)
	monitor.AfterEmbedding(len(query))

	// Fetch extra candidates when boosting can reorder them.
	limit := topK
	if s.verbatimBoost != 0 {
		limit = topK * 4
	}
	results, err := s.repo.FindSimilar(ctx, query, s.minSimilarity, limit)
	if err != nil {
		s.logger.Error("error querying for similar passages", "err", err)
		return nil, err
	}
	monitor.AfterSimilaritySearch(results)

	if s.verbatimBoost != 0 {
		for _, r := range results {
			if containsAllQueryWords(s.processor, r.Passage.Text, text) {
				r.Score += s.verbatimBoost
				monitor.VerbatimHit(r)
			}
		}
		slices.SortStableFunc(results, func(a, b *core.PassageResult) int {
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
	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	return results, nil
}
