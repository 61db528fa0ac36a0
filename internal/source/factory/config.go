package factory

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"

	"github.com/DjordjeVuckovic/rag-insight/internal/cache"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/es"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/file"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/hf"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/pg"
)

var supportedKinds = []source.Kind{source.KindHF, source.KindFile, source.KindPG, source.KindES}

type kindConfig struct {
	Type source.Kind `envconfig:"SOURCE_TYPE" default:"hf"`
}

type Config struct {
	Type  source.Kind
	HF    hf.Config
	File  file.Config
	PG    pg.Config
	ES    es.ClientConfig
	Cache cache.Config
}

// LoadConfig reads every variant's settings from the environment and checks
// the ones the selected SOURCE_TYPE needs.
func LoadConfig() (*Config, error) {
	return LoadConfigFor("")
}

// LoadConfigFor is LoadConfig with SOURCE_TYPE replaced by kind when kind is
// not empty.
func LoadConfigFor(kind source.Kind) (*Config, error) {
	var cfg Config
	var selected kindConfig

	targets := []struct {
		name string
		spec any
	}{
		{"source", &selected},
		{"hf", &cfg.HF},
		{"file", &cfg.File},
		{"pg", &cfg.PG},
		{"es", &cfg.ES},
		{"cache", &cfg.Cache},
	}
	for _, t := range targets {
		if err := envconfig.Process("", t.spec); err != nil {
			return nil, fmt.Errorf("processing %s config: %w", t.name, err)
		}
	}
	cfg.Type = selected.Type
	if kind != "" {
		cfg.Type = kind
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid record source configuration", "error", err)
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Type {
	case source.KindHF:
		return c.HF.Validate()
	case source.KindFile:
		if c.File.Dir == "" {
			return fmt.Errorf("FILE_SOURCE_DIR is not set")
		}
	case source.KindPG:
		if c.PG.ConnStr == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case source.KindES:
		if len(c.ES.Addresses) == 0 || c.ES.IndexName == "" {
			return fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
		}
	default:
		return fmt.Errorf("invalid SOURCE_TYPE %q, expected one of %v", c.Type, supportedKinds)
	}
	return nil
}
