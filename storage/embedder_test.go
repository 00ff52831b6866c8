package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/ai/mock"
	"github.com/poiesic/policylens/storage"
	"github.com/poiesic/policylens/storage/badger"
)

func newCache(t *testing.T) storage.EmbeddingCache {
	t.Helper()
	cache, passages, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		passages.Close()
		cache.Close()
		backend.Close()
	})
	return cache
}

func TestCachingEmbedder(t *testing.T) {
	ctx := context.Background()
	upstream := mock.NewMockEmbedder()
	upstream.Dimension = 8
	emb, err := storage.NewCachingEmbedder(upstream, newCache(t), "test-model")
	require.NoError(t, err)

	first, err := emb.EmbedTexts(ctx, []string{"solar", "wind", "solar"})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, first[0], first[2])
	assert.Equal(t, []string{"solar", "wind"}, upstream.EmbeddedTexts(), "duplicates are embedded once")

	second, err := emb.EmbedTexts(ctx, []string{"wind", "coal"})
	require.NoError(t, err)
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, []string{"solar", "wind", "coal"}, upstream.EmbeddedTexts(), "only misses go upstream")
	assert.Equal(t, 2, upstream.CallCount())

	v, err := emb.EmbedText(ctx, "coal")
	require.NoError(t, err)
	assert.Equal(t, second[1], v)
	assert.Equal(t, 2, upstream.CallCount(), "fully cached calls skip the embedder")

	empty, err := emb.EmbedTexts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCachingEmbedder_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := storage.NewCachingEmbedder(nil, newCache(t), "m")
	assert.ErrorIs(t, err, ai.ErrEmbedderRequired)

	_, err = storage.NewCachingEmbedder(mock.NewMockEmbedder(), nil, "m")
	assert.ErrorIs(t, err, storage.ErrCacheRequired)

	boom := errors.New("upstream down")
	upstream := mock.NewMockEmbedder()
	upstream.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, boom
	}
	emb, err := storage.NewCachingEmbedder(upstream, newCache(t), "m")
	require.NoError(t, err)
	_, err = emb.EmbedTexts(ctx, []string{"x"})
	assert.ErrorIs(t, err, boom)

	upstream.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}, {2}}, nil
	}
	_, err = emb.EmbedTexts(ctx, []string{"x"})
	assert.ErrorIs(t, err, storage.ErrLengthMismatch)
}
