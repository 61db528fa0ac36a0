package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/rag-insight/internal/cache"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/es"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/file"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/hf"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/pg"
	"github.com/DjordjeVuckovic/rag-insight/pkg/server"
)

// Built is a ready RecordSource plus what the server needs to watch and
// release it.
type Built struct {
	Source        source.RecordSource
	HealthChecker server.HealthChecker
	Close         func()
}

// NewSource creates the RecordSource selected by cfg.Type.
func NewSource(ctx context.Context, cfg *Config, metrics *observability.Metrics) (*Built, error) {
	switch cfg.Type {
	case source.KindHF:
		rowCache, err := cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create row cache: %w", err)
		}

		client, err := hf.NewClient(cfg.HF.BaseURL,
			hf.WithRateLimit(cfg.HF.RateLimitRPS, cfg.HF.RateLimitBurst),
			hf.WithCache(rowCache, cfg.Cache.TTL),
			hf.WithToken(cfg.HF.Token),
			hf.WithMetrics(metrics),
		)
		if err != nil {
			return nil, err
		}

		slog.Info("Using remote dataset source", "dataset", cfg.HF.Dataset, "cache", cfg.Cache.Type)
		return &Built{
			Source:        hf.NewSource(client, cfg.HF, metrics),
			HealthChecker: server.AlwaysHealthy,
			Close: func() {
				if closer, ok := rowCache.(interface{ Close() error }); ok {
					_ = closer.Close()
				}
			},
		}, nil

	case source.KindFile:
		slog.Info("Using local file source", "dir", cfg.File.Dir)
		return &Built{
			Source:        file.NewSource(cfg.File.Dir, metrics),
			HealthChecker: server.AlwaysHealthy,
			Close:         func() {},
		}, nil

	case source.KindPG:
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PG.ConnStr})
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		slog.Info("Using postgres source", "table", pg.TableName)
		return &Built{
			Source:        pg.NewSource(pool, cfg.PG.QueryTimeout, metrics),
			HealthChecker: pg.NewHealthChecker(pool),
			Close:         pool.Close,
		}, nil

	case source.KindES:
		src, err := es.NewSource(cfg.ES, metrics)
		if err != nil {
			return nil, err
		}
		hc, err := es.NewHealthChecker(cfg.ES)
		if err != nil {
			return nil, err
		}

		slog.Info("Using elasticsearch source", "index", cfg.ES.IndexName)
		return &Built{
			Source:        src,
			HealthChecker: hc,
			Close:         func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported source type %q, expected one of %v", cfg.Type, supportedKinds)
	}
}
