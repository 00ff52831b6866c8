package correlate

import (
	"context"
	"fmt"

	"github.com/poiesic/policylens/core"
)

// ScoreTokens scores the text of every token of doc in one batch and stores
// the scores in doc's side table under tag. Read them back with
// doc.TokenScores(tag).
func ScoreTokens(ctx context.Context, c *KeywordCorrelator, doc *core.Document, tag string) error {
	if tag == "" {
		return core.ErrEmptyLabel
	}
	texts := make([]string, doc.Len())
	for i, t := range doc.Tokens() {
		texts[i] = t.Text
	}
	scores, err := c.Scores(ctx, texts)
	if err != nil {
		return fmt.Errorf("scoring tokens of %s: %w", doc.Name, err)
	}
	return doc.SetTokenScores(tag, scores)
}

// RankTokens returns the tokens of doc scored under tag, highest first.
// Tokens for which keep returns false are left out; a nil keep keeps all.
func RankTokens(doc *core.Document, tag string, keep func(core.Token) bool) ([]core.Correlation, bool) {
	scores, ok := doc.TokenScores(tag)
	if !ok {
		return nil, false
	}
	out := make([]core.Correlation, 0, len(scores))
	for i, t := range doc.Tokens() {
		if keep != nil && !keep(t) {
			continue
		}
		out = append(out, core.Correlation{Text: t.Text, Score: scores[i]})
	}
	sortByScore(out)
	return out, true
}
