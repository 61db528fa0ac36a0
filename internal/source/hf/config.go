package hf

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultBaseURL = "https://datasets-server.huggingface.co"
	DefaultDataset = "dwb2023/gdelt-rag-evaluation-metrics"

	// MaxPageLength is the largest page the datasets server returns.
	MaxPageLength = 100
)

type Config struct {
	BaseURL       string `envconfig:"HF_BASE_URL" default:"https://datasets-server.huggingface.co"`
	Dataset       string `envconfig:"HF_DATASET" default:"dwb2023/gdelt-rag-evaluation-metrics"`
	DatasetConfig string `envconfig:"HF_CONFIG" default:"default"`
	Split         string `envconfig:"HF_SPLIT" default:"train"`
	Token         string `envconfig:"HF_TOKEN"`

	PageSize           int           `envconfig:"HF_PAGE_SIZE" default:"100"`
	MaxRows            int           `envconfig:"HF_MAX_ROWS" default:"1000"`
	MaxConcurrentPages int           `envconfig:"HF_MAX_CONCURRENT_PAGES" default:"4"`
	FetchTimeout       time.Duration `envconfig:"HF_FETCH_TIMEOUT" default:"30s"`
	RateLimitRPS       float64       `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst     int           `envconfig:"RATE_LIMIT_BURST" default:"5"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing hf config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig mirrors the envconfig defaults for callers that build the
// source programmatically.
func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		Dataset:            DefaultDataset,
		DatasetConfig:      "default",
		Split:              "train",
		PageSize:           MaxPageLength,
		MaxRows:            1000,
		MaxConcurrentPages: 4,
		FetchTimeout:       30 * time.Second,
		RateLimitRPS:       5,
		RateLimitBurst:     5,
	}
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("HF_BASE_URL is required")
	}
	if c.Dataset == "" {
		return fmt.Errorf("HF_DATASET is required")
	}
	if c.MaxRows < 1 {
		return fmt.Errorf("HF_MAX_ROWS must be positive, got %d", c.MaxRows)
	}
	if c.MaxConcurrentPages < 1 {
		return fmt.Errorf("HF_MAX_CONCURRENT_PAGES must be positive, got %d", c.MaxConcurrentPages)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("HF_FETCH_TIMEOUT must not be negative")
	}
	return nil
}
