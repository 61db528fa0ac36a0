package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/rag-insight/internal/collector"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

const defaultBatchSize = 500

// Pipeline defines the interface for data processing pipelines
type Pipeline interface {
	// Run executes the pipeline with the given context
	Run(ctx context.Context) (Stats, error)
}

// Storer persists labelled evaluation rows and reports how many were written.
type Storer interface {
	SaveBulk(ctx context.Context, rows []domain.RawRow) (int64, error)
}

type StorerFunc func(ctx context.Context, rows []domain.RawRow) (int64, error)

func (f StorerFunc) SaveBulk(ctx context.Context, rows []domain.RawRow) (int64, error) {
	return f(ctx, rows)
}

// BulkOptions defines bulk processing configuration
type BulkOptions struct {
	Enabled bool
	Size    int
}

type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}

type Stats struct {
	Processed int64
	Failed    int
	Batches   int
}

// ImportPipeline moves rows from a collector into a storer.
type ImportPipeline struct {
	collector collector.Collector[domain.RawRow]
	storer    Storer
	config    *PipelineConfig
}

type PipelineOption func(pipeline *ImportPipeline)

// WithBulk configures bulk processing with specified batch size
func WithBulk(size int) PipelineOption {
	return func(pipeline *ImportPipeline) {
		if size <= 0 {
			size = defaultBatchSize
		}
		pipeline.config.Bulk.Enabled = true
		pipeline.config.Bulk.Size = size
	}
}

func WithName(name string) PipelineOption {
	return func(pipeline *ImportPipeline) {
		pipeline.config.Name = name
	}
}

func NewPipeline(c collector.Collector[domain.RawRow], storer Storer, opts ...PipelineOption) *ImportPipeline {
	p := &ImportPipeline{
		collector: c,
		storer:    storer,
		config: &PipelineConfig{
			Name: "import-pipeline",
			Bulk: &BulkOptions{
				Enabled: false,
				Size:    defaultBatchSize,
			},
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run drains the collector. Collection and storage failures are counted and
// logged; the first storage error is returned after the run completes.
func (p *ImportPipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	slog.Info("Starting pipeline run",
		"pipeline", p.config.Name,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error starting collection", "error", err, "pipeline", p.config.Name)
		return Stats{}, err
	}

	size := 1
	if p.config.Bulk.Enabled {
		size = p.config.Bulk.Size
	}
	stats, runErr := p.process(ctx, results, size)

	slog.Info("Pipeline run completed",
		"pipeline", p.config.Name,
		"duration", time.Since(start),
		"processed", stats.Processed,
		"failed", stats.Failed,
		"batches", stats.Batches,
		"error", runErr,
	)

	return stats, runErr
}

func (p *ImportPipeline) process(ctx context.Context, results <-chan collector.Result[domain.RawRow], size int) (Stats, error) {
	var stats Stats
	var firstErr error
	pending := make([]domain.RawRow, 0, size)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		n, err := p.storer.SaveBulk(ctx, pending)
		if err != nil {
			slog.Error("Error saving rows",
				"error", err,
				"count", len(pending),
				"pipeline", p.config.Name,
			)
			stats.Failed += len(pending)
			if firstErr == nil {
				firstErr = err
			}
		} else {
			stats.Processed += n
			stats.Batches++
		}
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Pipeline context cancelled, stopping collection",
				"pipeline", p.config.Name,
				"processed", stats.Processed,
				"pending_batch", len(pending),
			)
			return stats, ctx.Err()
		case res, ok := <-results:
			if !ok {
				if err := ctx.Err(); err != nil {
					return stats, err
				}
				flush()
				return stats, firstErr
			}

			if res.Err != nil {
				slog.Error("Error collecting rows", "error", res.Err, "pipeline", p.config.Name)
				stats.Failed++
				if firstErr == nil {
					firstErr = res.Err
				}
				continue
			}

			pending = append(pending, res.Item)
			if len(pending) >= size {
				flush()
			}
		}
	}
}
