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

package policylens

import (
	"context"
	"log/slog"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/ai/openai"
	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/correlate"
	"github.com/poiesic/policylens/search"
	"github.com/poiesic/policylens/storage"
	"github.com/poiesic/policylens/storage/badger"
)

// Database bundles the on-disk passage index, the embedding cache and the
// embedding provider behind them.
type Database struct {
	backend  *badger.Backend
	cache    storage.EmbeddingCache
	passages storage.PassageRepository
	provider ai.Provider
	embedder ai.Embedder
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The Database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps everything in memory; filePath is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}
	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	passages, err := badger.NewPassageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	cache := badger.NewCacheRepository(backend)

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			passages.Close()
			backend.Close()
			return nil, err
		}
	}

	embedder, err := storage.NewCachingEmbedder(provider.Embedder(), cache, provider.ModelID())
	if err != nil {
		provider.Close()
		passages.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		cache:    cache,
		passages: passages,
		provider: provider,
		embedder: embedder,
		logger:   slog.Default().With("component", "database"),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.passages.Close(); err != nil {
		db.logger.Error("error closing passage repository", "err", err)
		return err
	}
	if err := db.cache.Close(); err != nil {
		db.logger.Error("error closing embedding cache", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) PassageRepository() storage.PassageRepository {
	return db.passages
}

func (db *Database) EmbeddingCache() storage.EmbeddingCache {
	return db.cache
}

// Embedder returns the provider's embedder behind the embedding cache.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

func (db *Database) NewIndexer(opts ...search.IndexerOption) (*search.Indexer, error) {
	return search.NewIndexer(db.passages, db.embedder, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.passages, db.embedder, opts...)
}

func (db *Database) NewCorrelator(ctx context.Context, keywords core.KeywordSet, opts ...correlate.Option) (*correlate.KeywordCorrelator, error) {
	return correlate.NewKeywordCorrelator(ctx, db.embedder, keywords, opts...)
}
