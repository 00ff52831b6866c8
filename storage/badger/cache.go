package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/policylens/storage"
)

// CacheRepository implements storage.EmbeddingCache for BadgerDB.
type CacheRepository struct {
	backend *Backend
}

var _ storage.EmbeddingCache = (*CacheRepository)(nil)

// NewCacheRepository creates a new CacheRepository.
func NewCacheRepository(backend *Backend) *CacheRepository {
	return &CacheRepository{backend: backend}
}

// Close is a no-op; the backend is owned by the caller.
func (r *CacheRepository) Close() error {
	return nil
}

// WithTransaction executes a function within a transaction.
func (r *CacheRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetEmbeddings looks up cached vectors. Missing entries are nil.
func (r *CacheRepository) GetEmbeddings(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	out := make([][]float32, len(texts))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, text := range texts {
			item, err := tx.Get(makeEmbeddingKey(model, text))
			if err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			err = item.Value(func(val []byte) error {
				stored, vector, err := storage.UnmarshalCachedEmbedding(val)
				if err != nil {
					return err
				}
				if stored == text {
					out[i] = vector
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutEmbeddings stores vectors[i] as the embedding of texts[i].
func (r *CacheRepository) PutEmbeddings(ctx context.Context, model string, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("%w: %d texts, %d vectors", storage.ErrLengthMismatch, len(texts), len(vectors))
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i, text := range texts {
			value, err := storage.MarshalCachedEmbedding(text, vectors[i])
			if err != nil {
				return err
			}
			if err := wb.Set(makeEmbeddingKey(model, text), value); err != nil {
				return err
			}
		}
		return nil
	})
}
