package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/policylens"
	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/ai/mock"
	"github.com/poiesic/policylens/ai/openai"
	"github.com/poiesic/policylens/core"
	"github.com/poiesic/policylens/correlate"
	"github.com/poiesic/policylens/frequency"
)

var errKeywordsRequired = errors.New("either --keywords or --topics with --topic is required")

// newProvider builds the embedding provider from the config file and flags.
func newProvider(c *cli.Context, cfg *AppConfig) (ai.Provider, error) {
	aiConfig := cfg.Embedding
	if c.IsSet("embedding-host") {
		aiConfig.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		aiConfig.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("timeout") {
		aiConfig.Timeout = c.Duration("timeout")
	}

	name := cfg.Provider
	if c.IsSet("provider") {
		name = c.String("provider")
	}
	switch name {
	case "", "openai":
		provider, err := openai.NewProvider(&aiConfig)
		if err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		return provider, nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: must be one of openai, mock", name)
	}
}

// openEmbedder returns the embedder for a command and a function releasing it.
// With a cache directory the embedder is served through the BadgerDB cache.
func openEmbedder(c *cli.Context, cfg *AppConfig) (ai.Embedder, func() error, error) {
	provider, err := newProvider(c, cfg)
	if err != nil {
		return nil, nil, err
	}

	cacheDir := cfg.CacheDB
	if c.IsSet("cache-db") {
		cacheDir = c.String("cache-db")
	}
	if cacheDir == "" {
		return provider.Embedder(), provider.Close, nil
	}

	db, err := policylens.NewDatabase(cacheDir, policylens.WithProvider(provider))
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	return db.Embedder(), db.Close, nil
}

// openDatabase opens the passage index named by --db.
func openDatabase(c *cli.Context, cfg *AppConfig) (*policylens.Database, error) {
	provider, err := newProvider(c, cfg)
	if err != nil {
		return nil, err
	}
	db, err := policylens.NewDatabase(c.String("db"), policylens.WithProvider(provider))
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// topicsPath returns the topics file from the flag or the config file.
func topicsPath(c *cli.Context, cfg *AppConfig) string {
	if c.IsSet("topics") {
		return c.String("topics")
	}
	return cfg.Topics
}

// keywordSet resolves the keyword phrases of a correlation command.
func keywordSet(c *cli.Context, cfg *AppConfig) (core.KeywordSet, error) {
	if phrases := c.StringSlice("keywords"); len(phrases) > 0 {
		return core.NewKeywordSet(phrases...)
	}

	path, topic := topicsPath(c, cfg), c.String("topic")
	if path == "" || topic == "" {
		return core.KeywordSet{}, errKeywordsRequired
	}
	topics, err := frequency.LoadTopics(path)
	if err != nil {
		return core.KeywordSet{}, err
	}
	phrases, ok := topics.Keywords(topic)
	if !ok {
		return core.KeywordSet{}, fmt.Errorf("%w: %q", frequency.ErrTopicNotFound, topic)
	}
	return core.NewKeywordSet(phrases...)
}

// correlatorOptions applies flag and config settings.
func correlatorOptions(c *cli.Context, cfg *AppConfig) ([]correlate.Option, error) {
	normalize := cfg.Correlation.Normalize
	if c.IsSet("normalize") {
		normalize = c.Bool("normalize")
	}
	opts := []correlate.Option{correlate.WithNormalize(normalize)}

	r, err := cfg.Correlation.ScoreRange()
	if err != nil {
		return nil, err
	}
	if r != nil {
		opts = append(opts, correlate.WithScoreRange(*r))
	}
	return opts, nil
}
