package correlate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
)

func TestWindows(t *testing.T) {
	assert.Equal(t, []core.Span{{Start: 0, End: 2}, {Start: 1, End: 3}, {Start: 2, End: 4}, {Start: 3, End: 5}}, Windows(5, 2))
	assert.Equal(t, []core.Span{{Start: 0, End: 5}}, Windows(5, 5))

	for _, tt := range []struct{ docLen, size int }{{5, 0}, {5, -1}, {5, 6}, {0, 1}} {
		assert.Empty(t, Windows(tt.docLen, tt.size), "docLen=%d size=%d", tt.docLen, tt.size)
	}

	for docLen := 1; docLen <= 12; docLen++ {
		for size := 1; size <= docLen; size++ {
			windows := Windows(docLen, size)
			require.Len(t, windows, docLen-size+1)
			for i, w := range windows {
				assert.Equal(t, core.Span{Start: i, End: i + size}, w)
			}
		}
	}
}

func TestStride(t *testing.T) {
	windows := Windows(12, 3) // 10 windows
	assert.Equal(t, []core.Span{windows[0], windows[4], windows[8]}, Stride(windows, 4))
	assert.Equal(t, windows, Stride(windows, 1))
	assert.Equal(t, windows, Stride(windows, 0))
	assert.Empty(t, Stride(nil, 4))
}

func TestNGramTagger(t *testing.T) {
	ctx := context.Background()
	tagger := newTagger(t, 0.5)

	_, err := NewNGramTagger(nil)
	assert.ErrorIs(t, err, ErrCorrelatorRequired)

	t.Run("every window", func(t *testing.T) {
		doc := nlp.NewDocument("d", "coal gas solar oil peat wind")
		ng, err := NewNGramTagger(tagger, WithStride(1))
		require.NoError(t, err)

		scored, added, err := ng.CorrelateSpans(ctx, doc, 2)
		require.NoError(t, err)
		assert.Len(t, scored, 5)
		// [1,3) "gas solar" claims "solar"; [2,4) overlaps it; [4,6) "peat wind" is free.
		assert.Equal(t, 2, added)
		assert.Equal(t, []core.Entity{
			{Span: core.Span{Start: 1, End: 3}, Label: "ENERGY"},
			{Span: core.Span{Start: 4, End: 6}, Label: "ENERGY"},
		}, doc.Entities())
	})

	t.Run("default stride", func(t *testing.T) {
		doc := nlp.NewDocument("d", "coal gas solar oil peat wind")
		ng, err := NewNGramTagger(tagger)
		require.NoError(t, err)

		scored, added, err := ng.CorrelateSpans(ctx, doc, 2)
		require.NoError(t, err)
		require.Len(t, scored, 2) // windows 0 and 4
		assert.Equal(t, core.Span{Start: 4, End: 6}, scored[1].Span)
		assert.Equal(t, 1, added)
	})

	t.Run("window larger than document", func(t *testing.T) {
		doc := nlp.NewDocument("d", "solar")
		ng, err := NewNGramTagger(tagger)
		require.NoError(t, err)
		scored, added, err := ng.CorrelateSpans(ctx, doc, 3)
		require.NoError(t, err)
		assert.Empty(t, scored)
		assert.Zero(t, added)
	})
}

func TestScoreTokens(t *testing.T) {
	ctx := context.Background()
	c, err := NewKeywordCorrelator(ctx, axisEmbedder(), keywords(t, "solar"), WithNormalize(true))
	require.NoError(t, err)

	doc := nlp.NewDocument("d", "coal, solar and wind.")
	require.NoError(t, ScoreTokens(ctx, c, doc, "climate_corr"))

	scores, ok := doc.TokenScores("climate_corr")
	require.True(t, ok)
	require.Len(t, scores, doc.Len())
	score, _ := doc.TokenScore("climate_corr", 2)
	assert.InDelta(t, 1.0, score, 1e-6)

	ranked, ok := RankTokens(doc, "climate_corr", nlp.IsAllowed)
	require.True(t, ok)
	require.Len(t, ranked, 3) // coal, solar, wind
	assert.Equal(t, "solar", ranked[0].Text)
	assert.Equal(t, "wind", ranked[1].Text)
	assert.Equal(t, "coal", ranked[2].Text)

	_, ok = RankTokens(doc, "missing", nil)
	assert.False(t, ok)

	assert.ErrorIs(t, ScoreTokens(ctx, c, doc, ""), core.ErrEmptyLabel)
}
