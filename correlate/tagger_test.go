package correlate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/nlp"
)

func energyDoc() *core.Document {
	return nlp.NewDocument("energy", "solar wind coal gas oil")
}

func newTagger(t *testing.T, threshold float32) *SpanTagger {
	t.Helper()
	c, err := NewKeywordCorrelator(context.Background(), axisEmbedder(), keywords(t, "solar"), WithNormalize(true))
	require.NoError(t, err)
	tagger, err := NewSpanTagger(c, threshold, "ENERGY")
	require.NoError(t, err)
	return tagger
}

func TestTagScored(t *testing.T) {
	t.Run("all non-overlapping spans above threshold are tagged in any order", func(t *testing.T) {
		scored := []core.ScoredSpan{
			{Span: core.Span{Start: 0, End: 1}, Score: 0.9},
			{Span: core.Span{Start: 2, End: 3}, Score: 0.8},
			{Span: core.Span{Start: 3, End: 5}, Score: 0.7},
			{Span: core.Span{Start: 1, End: 2}, Score: 0.1},
		}
		reversed := []core.ScoredSpan{scored[3], scored[2], scored[1], scored[0]}

		for name, input := range map[string][]core.ScoredSpan{"forward": scored, "reversed": reversed} {
			t.Run(name, func(t *testing.T) {
				doc := energyDoc()
				added, err := TagScored(doc, input, 0.5, "ENERGY")
				require.NoError(t, err)
				assert.Equal(t, 3, added)
				assert.Equal(t, []core.Entity{
					{Span: core.Span{Start: 0, End: 1}, Label: "ENERGY"},
					{Span: core.Span{Start: 2, End: 3}, Label: "ENERGY"},
					{Span: core.Span{Start: 3, End: 5}, Label: "ENERGY"},
				}, doc.Entities())
			})
		}
	})

	t.Run("first of two overlapping spans wins", func(t *testing.T) {
		doc := energyDoc()
		added, err := TagScored(doc, []core.ScoredSpan{
			{Span: core.Span{Start: 1, End: 3}, Score: 0.6},
			{Span: core.Span{Start: 0, End: 2}, Score: 0.99},
		}, 0.5, "ENERGY")
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		ents := doc.Entities()
		require.Len(t, ents, 1)
		assert.Equal(t, core.Span{Start: 1, End: 3}, ents[0].Span)
	})

	t.Run("score equal to threshold is not tagged", func(t *testing.T) {
		doc := energyDoc()
		added, err := TagScored(doc, []core.ScoredSpan{{Span: core.Span{Start: 0, End: 1}, Score: 0.5}}, 0.5, "ENERGY")
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("invalid span is an error", func(t *testing.T) {
		doc := energyDoc()
		_, err := TagScored(doc, []core.ScoredSpan{{Span: core.Span{Start: 4, End: 9}, Score: 0.9}}, 0.5, "ENERGY")
		assert.ErrorIs(t, err, core.ErrInvalidSpan)
	})
}

func TestNewSpanTagger(t *testing.T) {
	c, err := NewKeywordCorrelator(context.Background(), axisEmbedder(), keywords(t, "solar"), WithNormalize(true))
	require.NoError(t, err)

	_, err = NewSpanTagger(nil, 0.5, "ENERGY")
	assert.ErrorIs(t, err, ErrCorrelatorRequired)

	_, err = NewSpanTagger(c, 0.5, "")
	assert.ErrorIs(t, err, core.ErrEmptyLabel)

	_, err = NewSpanTagger(c, 1.5, "ENERGY")
	assert.ErrorIs(t, err, core.ErrThresholdOutOfRange)

	tagger, err := NewSpanTagger(c, 0.5, "ENERGY")
	require.NoError(t, err)
	assert.Equal(t, "ENERGY", tagger.Label())
	assert.Equal(t, float32(0.5), tagger.Threshold())
}

func TestSpanTagger_Tag(t *testing.T) {
	doc := energyDoc()
	tagger := newTagger(t, 0.5)

	spans := []core.Span{{Start: 0, End: 2}, {Start: 1, End: 3}, {Start: 3, End: 5}}
	scored, added, err := tagger.Tag(context.Background(), doc, spans)
	require.NoError(t, err)
	require.Len(t, scored, 3)
	assert.InDelta(t, 1.0, scored[0].Score, 1e-6) // "solar wind"
	assert.InDelta(t, 1.0, scored[1].Score, 1e-6) // "wind coal"
	assert.InDelta(t, 0.0, scored[2].Score, 1e-6) // "gas oil"

	assert.Equal(t, 1, added)
	assert.Equal(t, []core.Entity{{Span: core.Span{Start: 0, End: 2}, Label: "ENERGY"}}, doc.Entities())

	_, _, err = tagger.Tag(context.Background(), doc, []core.Span{{Start: 3, End: 3}})
	assert.ErrorIs(t, err, core.ErrInvalidSpan)
}

func TestSpanTagger_TagTokens(t *testing.T) {
	ctx := context.Background()
	doc := energyDoc()
	tagger := newTagger(t, 0.5)

	score, ok, err := tagger.TagTokens(ctx, doc, []core.Token{doc.Token(0), doc.Token(2)})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, score, 1e-6)
	assert.Equal(t, []core.Entity{{Span: core.Span{Start: 0, End: 3}, Label: "ENERGY"}}, doc.Entities(),
		"the last token is inside the entity")

	_, ok, err = tagger.TagTokens(ctx, doc, []core.Token{doc.Token(1)})
	require.NoError(t, err)
	assert.False(t, ok, "overlapping subset is dropped")

	score, ok, err = tagger.TagTokens(ctx, doc, []core.Token{doc.Token(3), doc.Token(4)})
	require.NoError(t, err)
	assert.False(t, ok, "below threshold")
	assert.InDelta(t, 0.0, score, 1e-6)

	_, _, err = tagger.TagTokens(ctx, doc, nil)
	assert.ErrorIs(t, err, ErrNoTokens)

	_, _, err = tagger.TagTokens(ctx, doc, []core.Token{doc.Token(4), doc.Token(3)})
	assert.ErrorIs(t, err, core.ErrInvalidSpan)
}

func TestEntitiesAbove(t *testing.T) {
	ctx := context.Background()
	doc := energyDoc()
	c, err := NewKeywordCorrelator(ctx, axisEmbedder(), keywords(t, "solar"), WithNormalize(true))
	require.NoError(t, err)

	spans := []core.Span{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 4}}
	scores, err := ScoreSpans(ctx, c, doc, spans)
	require.NoError(t, err)
	assert.Len(t, scores, 3)

	extra := append(spans, core.Span{Start: 4, End: 5}) // no score recorded
	added, err := EntitiesAbove(doc, extra, scores, 0.5, "CLIMATE")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Len(t, doc.Entities(), 2)
}
