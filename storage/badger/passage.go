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

package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/storage"
)

// PassageRepository implements storage.PassageRepository for BadgerDB.
type PassageRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.PassageRepository = (*PassageRepository)(nil)

// NewPassageRepository creates a new PassageRepository.
func NewPassageRepository(backend *Backend) (*PassageRepository, error) {
	seq, err := backend.GetSequence(passageIDSeq)
	if err != nil {
		return nil, err
	}
	return &PassageRepository{
		backend: backend,
		idSeq:   seq,
	}, nil
}

// Close releases the ID sequence. The backend is owned by the caller.
func (r *PassageRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction executes a function within a transaction.
func (r *PassageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// nextID returns the next passage ID. Zero is reserved for "unassigned".
func (r *PassageRepository) nextID() (core.ID, error) {
	for {
		id, err := r.idSeq.Next()
		if err != nil {
			return 0, err
		}
		if id != 0 {
			return core.ID(id), nil
		}
	}
}

// AddPassages stores passages and their document index entries.
func (r *PassageRepository) AddPassages(ctx context.Context, passages ...*core.Passage) ([]*core.Passage, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	for _, p := range passages {
		if p.Id == 0 {
			id, err := r.nextID()
			if err != nil {
				return nil, err
			}
			p.Id = id
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, p := range passages {
			value, err := storage.MarshalPassage(p)
			if err != nil {
				return err
			}
			if err := tx.Set(makePassageKey(p.Id), value); err != nil {
				return err
			}
			if err := tx.Set(makeDocumentKey(p.Document, p.Ordinal, p.Id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return passages, nil
}

// GetPassage retrieves a single passage by ID.
func (r *PassageRepository) GetPassage(ctx context.Context, id core.ID) (*core.Passage, error) {
	var passage *core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		passage, err = getPassage(tx, id)
		return err
	}, false)
	return passage, err
}

func getPassage(tx *badger.Txn, id core.ID) (*core.Passage, error) {
	item, err := tx.Get(makePassageKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("passage %d: %w", id, storage.ErrNotFound)
		}
		return nil, err
	}
	var passage *core.Passage
	err = item.Value(func(val []byte) error {
		var err error
		passage, err = storage.UnmarshalPassage(val)
		return err
	})
	return passage, err
}

// documentIDs returns the passage IDs of a document in ordinal order.
func documentIDs(tx *badger.Txn, document string) []core.ID {
	prefix := makePartialDocumentKey(document)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := tx.NewIterator(opts)
	defer it.Close()

	var ids []core.ID
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, idFromDocumentKey(it.Item().Key()))
	}
	return ids
}

// GetPassagesByDocument returns the passages of a document ordered by ordinal.
func (r *PassageRepository) GetPassagesByDocument(ctx context.Context, document string) ([]*core.Passage, error) {
	var passages []*core.Passage
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range documentIDs(tx, document) {
			p, err := getPassage(tx, id)
			if err != nil {
				return err
			}
			passages = append(passages, p)
		}
		return nil
	}, false)
	return passages, err
}

// DeleteDocument removes every passage of a document and its index record.
func (r *PassageRepository) DeleteDocument(ctx context.Context, document string) (int, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids = documentIDs(tx, document)
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	// Large documents can exceed a single transaction, so deletes go through a batch.
	err = r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, id := range ids {
			if err := wb.Delete(makePassageKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialDocumentKey(document)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, k := range keys {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeIndexedDocumentKey(document)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// CountPassages returns the number of stored passages.
func (r *PassageRepository) CountPassages(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(passagePrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar finds passages similar to the given vector.
// Scores are dot products, so callers store and query with normalized vectors
// to rank by cosine similarity.
func (r *PassageRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.PassageResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", storage.ErrInvalidQuery)
	}

	var results []*core.PassageResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(passagePrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var passage *core.Passage
			err := it.Item().Value(func(val []byte) error {
				var err error
				passage, err = storage.UnmarshalPassage(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(passage.Vector) == 0 {
				continue
			}
			score, err := core.DotProduct(vector, passage.Vector)
			if err != nil {
				return fmt.Errorf("passage %d: %w", passage.Id, err)
			}
			if score >= minSimilarity {
				results = append(results, &core.PassageResult{Passage: passage, Score: score})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
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
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SaveIndexedDocument records the index state of a document.
func (r *PassageRepository) SaveIndexedDocument(ctx context.Context, doc *core.IndexedDocument) error {
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}
	value, err := storage.MarshalIndexedDocument(doc)
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeIndexedDocumentKey(doc.Name), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetIndexedDocument returns the index state of a document.
func (r *PassageRepository) GetIndexedDocument(ctx context.Context, name string) (*core.IndexedDocument, error) {
	var doc *core.IndexedDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexedDocumentKey(name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("document %q: %w", name, storage.ErrNotFound)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			doc, err = storage.UnmarshalIndexedDocument(val)
			return err
		})
	}, false)
	return doc, err
}

// ListIndexedDocuments returns the index state of every document, ordered by name.
func (r *PassageRepository) ListIndexedDocuments(ctx context.Context) ([]*core.IndexedDocument, error) {
	var docs []*core.IndexedDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(indexedDocumentPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				doc, err := storage.UnmarshalIndexedDocument(val)
				if err != nil {
					return err
				}
				docs = append(docs, doc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return docs, err
}
