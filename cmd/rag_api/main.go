// Package main RAG Insight API
// @title RAG Insight API
// @version 1.0
// @description Evaluation metrics, dataset catalog and query console backend for a RAG evaluation dashboard
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/DjordjeVuckovic/rag-insight/internal/catalog"
	"github.com/DjordjeVuckovic/rag-insight/internal/eval"
	"github.com/DjordjeVuckovic/rag-insight/internal/graph"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/router"
	"github.com/DjordjeVuckovic/rag-insight/internal/server"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/factory"
)

func main() {
	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(sCfg.LogLevel)

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	built, err := factory.NewSource(context.Background(), &cfg.SourceConfig, metrics)
	if err != nil {
		slog.Error("Failed to create record source", "error", err)
		os.Exit(1)
	}
	defer built.Close()

	cat, err := catalog.Load(cfg.CatalogConfig)
	if err != nil {
		slog.Error("Failed to load dataset catalog", "error", err)
		os.Exit(1)
	}

	graphClient, err := graph.NewClientFromConfig(cfg.GraphConfig, graph.WithMetrics(metrics))
	if err != nil {
		slog.Error("Failed to create graph client", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, built.HealthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupMetrics("/metrics", metrics).
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "RAG Insight API is running")
	})

	assembler := eval.NewAssembler(built.Source, eval.WithMetrics(metrics))

	router.NewEvaluationRouter(s.Echo, assembler, cat.Run).Bind()
	router.NewDatasetsRouter(s.Echo, cat).Bind()
	router.NewQueryRouter(s.Echo, graphClient).Bind()

	slog.Info("Routes bound", "source", built.Source.Kind(), "graph", cfg.GraphConfig.BaseURL)

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		built.Close()
		os.Exit(1)
	}
}
