package correlate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/ai/mock"
	"github.com/poiesic/policylens/core"
)

// vectorEmbedder returns a mock embedder that maps each text through fn.
func vectorEmbedder(fn func(text string) []float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedder()
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			out[i] = fn(t)
		}
		return out, nil
	}
	return m
}

// axisEmbedder maps texts mentioning "solar" or "wind" to [1,0] and
// everything else to [0,1].
func axisEmbedder() *mock.MockEmbedder {
	return vectorEmbedder(func(text string) []float32 {
		if strings.Contains(text, "solar") || strings.Contains(text, "wind") {
			return []float32{1, 0}
		}
		return []float32{0, 1}
	})
}

func keywords(t *testing.T, phrases ...string) core.KeywordSet {
	t.Helper()
	set, err := core.NewKeywordSet(phrases...)
	require.NoError(t, err)
	return set
}

func TestKeywordCorrelator_SelfMatch(t *testing.T) {
	ctx := context.Background()
	kw := keywords(t, "resilience", "sustainability", "mother nature", "green thought")
	c, err := NewKeywordCorrelator(ctx, mock.NewMockEmbedder(), kw, WithNormalize(true))
	require.NoError(t, err)
	assert.Equal(t, mock.DefaultDimension, c.Dimension())
	assert.Equal(t, core.CosineRange, c.ScoreRange())

	for _, phrase := range kw.Phrases() {
		t.Run(phrase, func(t *testing.T) {
			scores, err := c.Scores(ctx, []string{phrase})
			require.NoError(t, err)
			assert.InDelta(t, 1.0, scores[0], 1e-5)
		})
	}

	scores, err := c.Scores(ctx, []string{"quarterly tax receipts"})
	require.NoError(t, err)
	assert.Less(t, scores[0], float32(0.99))
}

func TestKeywordCorrelator_MaxReduction(t *testing.T) {
	ctx := context.Background()
	vectors := map[string][]float32{
		"k1": {1, 0},
		"k2": {0, 1},
		"a":  {0.6, 0.8},
		"b":  {1, 0},
		"c":  {-1, 0},
	}
	emb := vectorEmbedder(func(text string) []float32 { return vectors[text] })

	c, err := NewKeywordCorrelator(ctx, emb, keywords(t, "k1", "k2"))
	require.NoError(t, err)
	assert.Equal(t, core.UnboundedRange, c.ScoreRange())
	assert.Equal(t, 1, emb.CallCount())

	got, err := c.Correlate(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Text)
	assert.InDelta(t, 0.8, got[0].Score, 1e-6)
	assert.InDelta(t, 1.0, got[1].Score, 1e-6)
	assert.InDelta(t, 0.0, got[2].Score, 1e-6)
	assert.Equal(t, 2, emb.CallCount(), "candidates are embedded in one batch")

	ranked, err := c.Ranked(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, []string{ranked[0].Text, ranked[1].Text, ranked[2].Text})
}

func TestKeywordCorrelator_EmptyCandidates(t *testing.T) {
	emb := axisEmbedder()
	c, err := NewKeywordCorrelator(context.Background(), emb, keywords(t, "solar"))
	require.NoError(t, err)

	scores, err := c.Scores(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
	assert.Equal(t, 1, emb.CallCount())
}

func TestNewKeywordCorrelator_Errors(t *testing.T) {
	ctx := context.Background()
	kw := keywords(t, "solar")

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewKeywordCorrelator(ctx, nil, kw)
		assert.ErrorIs(t, err, ai.ErrEmbedderRequired)
	})

	t.Run("empty keyword set", func(t *testing.T) {
		_, err := NewKeywordCorrelator(ctx, axisEmbedder(), core.KeywordSet{})
		assert.ErrorIs(t, err, core.ErrEmptyKeywordSet)
	})

	t.Run("invalid score range", func(t *testing.T) {
		_, err := NewKeywordCorrelator(ctx, axisEmbedder(), kw, WithScoreRange(core.ScoreRange{Min: 1, Max: -1}))
		assert.ErrorIs(t, err, core.ErrInvalidScoreRange)
	})

	t.Run("provider failure", func(t *testing.T) {
		boom := errors.New("model unavailable")
		emb := mock.NewMockEmbedder()
		emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, boom
		}
		_, err := NewKeywordCorrelator(ctx, emb, kw)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("count mismatch", func(t *testing.T) {
		emb := mock.NewMockEmbedder()
		emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}, {1}}, nil
		}
		_, err := NewKeywordCorrelator(ctx, emb, kw)
		assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	})

	t.Run("ragged vectors", func(t *testing.T) {
		emb := mock.NewMockEmbedder()
		emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}, {1}}, nil
		}
		_, err := NewKeywordCorrelator(ctx, emb, keywords(t, "solar", "wind"))
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})
}

func TestKeywordCorrelator_ScoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("candidate dimension differs from keywords", func(t *testing.T) {
		emb := vectorEmbedder(func(text string) []float32 {
			if text == "solar" {
				return []float32{1, 0}
			}
			return []float32{1, 0, 0}
		})
		c, err := NewKeywordCorrelator(ctx, emb, keywords(t, "solar"))
		require.NoError(t, err)
		_, err = c.Scores(ctx, []string{"coal"})
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("score outside configured range", func(t *testing.T) {
		emb := vectorEmbedder(func(string) []float32 { return []float32{2, 0} })
		c, err := NewKeywordCorrelator(ctx, emb, keywords(t, "solar"), WithScoreRange(core.CosineRange))
		require.NoError(t, err)
		_, err = c.Scores(ctx, []string{"solar"})
		assert.ErrorIs(t, err, ErrScoreOutOfRange)
	})

	t.Run("normalizing keeps scores in range", func(t *testing.T) {
		emb := vectorEmbedder(func(string) []float32 { return []float32{2, 0} })
		c, err := NewKeywordCorrelator(ctx, emb, keywords(t, "solar"), WithNormalize(true))
		require.NoError(t, err)
		scores, err := c.Scores(ctx, []string{"solar"})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, scores[0], 1e-6)
	})

	t.Run("failed batch returns no scores", func(t *testing.T) {
		boom := errors.New("rate limited")
		emb := axisEmbedder()
		c, err := NewKeywordCorrelator(ctx, emb, keywords(t, "solar"))
		require.NoError(t, err)
		emb.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, boom
		}
		scores, err := c.Scores(ctx, []string{"a", "b"})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, scores)
	})
}

func TestKeywordCorrelator_Timeout(t *testing.T) {
	ctx := context.Background()
	emb := mock.NewMockEmbedder()
	emb.Dimension = 8
	slow := func(ctx context.Context, texts []string) ([][]float32, error) {
		if texts[0] == "slow" {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
			}
		}
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = mock.GenerateDeterministicVector(text, 8)
		}
		return out, nil
	}
	emb.EmbedTextsFunc = slow

	c, err := NewKeywordCorrelator(ctx, ai.NewTimeoutEmbedder(emb, 20*time.Millisecond), keywords(t, "solar"))
	require.NoError(t, err)

	_, err = c.Scores(ctx, []string{"slow"})
	assert.ErrorIs(t, err, ai.ErrEmbeddingTimeout)

	_, err = c.Scores(ctx, []string{"fast"})
	assert.NoError(t, err)
}
