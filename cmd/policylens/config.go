package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/policylens/ai"
	"github.com/poiesic/policylens/core"
)

const configKey = "config"

// AppConfig is the optional YAML configuration file. Command line flags
// override any value set here.
type AppConfig struct {
	Embedding   ai.Config         `yaml:"embedding"`
	Provider    string            `yaml:"provider"`
	CacheDB     string            `yaml:"cache_db"`
	Topics      string            `yaml:"topics"`
	Correlation CorrelationConfig `yaml:"correlation"`
}

// CorrelationConfig holds tagging defaults.
type CorrelationConfig struct {
	Threshold float32  `yaml:"threshold"`
	Label     string   `yaml:"label"`
	Normalize bool     `yaml:"normalize"`
	ScoreMin  *float32 `yaml:"score_min"`
	ScoreMax  *float32 `yaml:"score_max"`
}

// ScoreRange returns the configured range, or nil when neither bound is set.
func (c CorrelationConfig) ScoreRange() (*core.ScoreRange, error) {
	if c.ScoreMin == nil && c.ScoreMax == nil {
		return nil, nil
	}
	r := core.UnboundedRange
	if c.ScoreMin != nil {
		r.Min = *c.ScoreMin
	}
	if c.ScoreMax != nil {
		r.Max = *c.ScoreMax
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Embedding: *ai.DefaultConfig(),
		Provider:  "openai",
		Correlation: CorrelationConfig{
			Threshold: 0.5,
			Label:     "CLIMATE",
			Normalize: true,
		},
	}
}

// loadAppConfig reads path over the defaults.
func loadAppConfig(path string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func setupConfig(c *cli.Context) error {
	cfg := defaultAppConfig()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = loadAppConfig(path)
		if err != nil {
			return err
		}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func appConfig(c *cli.Context) *AppConfig {
	if cfg, ok := c.App.Metadata[configKey].(*AppConfig); ok {
		return cfg
	}
	return defaultAppConfig()
}
