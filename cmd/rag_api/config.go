package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/DjordjeVuckovic/rag-insight/internal/catalog"
	"github.com/DjordjeVuckovic/rag-insight/internal/graph"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/factory"
	"github.com/DjordjeVuckovic/rag-insight/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type RagAPIConfig struct {
	SourceConfig  factory.Config
	GraphConfig   graph.Config
	CatalogConfig catalog.Config
}

func (as *AppConfig) Load() (*RagAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/rag_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	sourceCfg, err := factory.LoadConfig()
	if err != nil {
		slog.Error("Failed to load record source configuration from environment", "error", err)
		return nil, err
	}

	graphCfg, err := graph.LoadConfig()
	if err != nil {
		slog.Error("Failed to load graph client configuration from environment", "error", err)
		return nil, err
	}

	var catalogCfg catalog.Config
	if err := envconfig.Process("", &catalogCfg); err != nil {
		return nil, fmt.Errorf("processing catalog config: %w", err)
	}

	return &RagAPIConfig{
		SourceConfig:  *sourceCfg,
		GraphConfig:   *graphCfg,
		CatalogConfig: catalogCfg,
	}, nil
}
