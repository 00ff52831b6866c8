package correlate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/policylens/core"
)

// TagScored adds an entity labeled label for every candidate whose score is
// above threshold. Candidates are processed in the given order and a span
// overlapping an earlier entity is dropped without error. It returns the
// number of entities added.
//
// TagScored mutates doc; callers must not tag one document from several
// goroutines at once.
func TagScored(doc *core.Document, scored []core.ScoredSpan, threshold float32, label string) (int, error) {
	added := 0
	for _, s := range scored {
		if s.Score <= threshold {
			continue
		}
		ok, err := doc.AddEntity(core.Entity{Span: s.Span, Label: label})
		if err != nil {
			return added, fmt.Errorf("tagging span [%d,%d): %w", s.Span.Start, s.Span.End, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// SpanScores holds a correlation score per span, populated by ScoreSpans.
type SpanScores map[core.Span]float32

// ScoreSpans scores the text of every span of doc in one batch.
func ScoreSpans(ctx context.Context, c *KeywordCorrelator, doc *core.Document, spans []core.Span) (SpanScores, error) {
	texts := make([]string, len(spans))
	for i, s := range spans {
		if err := doc.ValidateSpan(s); err != nil {
			return nil, err
		}
		texts[i] = doc.SpanText(s)
	}
	scores, err := c.Scores(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make(SpanScores, len(spans))
	for i, s := range spans {
		out[s] = scores[i]
	}
	return out, nil
}

// EntitiesAbove tags every span whose score in scores is above threshold,
// in the order of spans. Spans without a score are skipped.
func EntitiesAbove(doc *core.Document, spans []core.Span, scores SpanScores, threshold float32, label string) (int, error) {
	scored := make([]core.ScoredSpan, 0, len(spans))
	for _, s := range spans {
		score, ok := scores[s]
		if !ok {
			continue
		}
		scored = append(scored, core.ScoredSpan{Span: s, Score: score})
	}
	return TagScored(doc, scored, threshold, label)
}

// SpanTagger labels document spans that correlate with a keyword set.
type SpanTagger struct {
	correlator *KeywordCorrelator
	threshold  float32
	label      string
	logger     *slog.Logger
}

// TaggerOption configures a SpanTagger.
type TaggerOption func(*SpanTagger)

// WithTaggerLogger sets a custom logger.
func WithTaggerLogger(logger *slog.Logger) TaggerOption {
	return func(t *SpanTagger) {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
	}
}

// NewSpanTagger creates a tagger. The threshold must lie in the
// correlator's score range.
func NewSpanTagger(correlator *KeywordCorrelator, threshold float32, label string, opts ...TaggerOption) (*SpanTagger, error) {
	if correlator == nil {
		return nil, ErrCorrelatorRequired
	}
	if label == "" {
		return nil, core.ErrEmptyLabel
	}
	if err := correlator.ScoreRange().ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	t := &SpanTagger{
		correlator: correlator,
		threshold:  threshold,
		label:      label,
		logger:     slog.Default().With("component", "tagger"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Label returns the entity label.
func (t *SpanTagger) Label() string {
	return t.label
}

// Threshold returns the tagging threshold.
func (t *SpanTagger) Threshold() float32 {
	return t.threshold
}

// Tag scores spans and records those above the threshold as entities.
// It returns the scored spans in input order and the number of entities added.
func (t *SpanTagger) Tag(ctx context.Context, doc *core.Document, spans []core.Span) ([]core.ScoredSpan, int, error) {
	scores, err := ScoreSpans(ctx, t.correlator, doc, spans)
	if err != nil {
		return nil, 0, err
	}
	scored := make([]core.ScoredSpan, len(spans))
	for i, s := range spans {
		scored[i] = core.ScoredSpan{Span: s, Score: scores[s]}
	}
	added, err := TagScored(doc, scored, t.threshold, t.label)
	if err != nil {
		return scored, added, err
	}
	t.logger.Debug("tagged spans", "document", doc.Name, "candidates", len(spans), "added", added)
	return scored, added, nil
}

// TagTokens scores the space-joined text of a token subset, which need not
// be contiguous, and tags the range from the first to the last token
// inclusive when the score is above the threshold. Tokens must be in
// document order. It returns the score and whether an entity was added.
func (t *SpanTagger) TagTokens(ctx context.Context, doc *core.Document, tokens []core.Token) (float32, bool, error) {
	if len(tokens) == 0 {
		return 0, false, ErrNoTokens
	}
	span := core.Span{Start: tokens[0].Index, End: tokens[len(tokens)-1].Index + 1}
	if err := doc.ValidateSpan(span); err != nil {
		return 0, false, err
	}

	scores, err := t.correlator.Scores(ctx, []string{core.JoinTokens(tokens)})
	if err != nil {
		return 0, false, err
	}
	score := scores[0]
	if score <= t.threshold {
		return score, false, nil
	}
	ok, err := doc.AddEntity(core.Entity{Span: span, Label: t.label})
	return score, ok, err
}
