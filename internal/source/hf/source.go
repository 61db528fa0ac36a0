package hf

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

// Source serves every retriever from one published dataset. The dataset is
// not partitioned by retriever, so Fetch returns all rows and the caller
// filters on the normalized label.
type Source struct {
	client  *Client
	cfg     Config
	metrics *observability.Metrics
}

var _ source.RecordSource = (*Source)(nil)

func NewSource(client *Client, cfg Config, metrics *observability.Metrics) *Source {
	if cfg.PageSize < 1 || cfg.PageSize > MaxPageLength {
		cfg.PageSize = MaxPageLength
	}
	if cfg.MaxConcurrentPages < 1 {
		cfg.MaxConcurrentPages = 1
	}
	return &Source{client: client, cfg: cfg, metrics: metrics}
}

func (s *Source) Kind() source.Kind {
	return source.KindHF
}

func (s *Source) Fetch(ctx context.Context, retriever domain.RetrieverID) (*source.Batch, error) {
	if err := domain.ValidateRetriever(retriever); err != nil {
		return nil, err
	}
	return s.fetch(ctx, fmt.Sprintf("fetch %s rows for %s", s.cfg.Dataset, retriever))
}

func (s *Source) FetchAll(ctx context.Context) (*source.Batch, error) {
	return s.fetch(ctx, fmt.Sprintf("fetch %s rows", s.cfg.Dataset))
}

func (s *Source) fetch(ctx context.Context, op string) (*source.Batch, error) {
	start := time.Now()
	batch, err := source.WithTimeout(ctx, s.cfg.FetchTimeout, op, s.readPages)
	s.metrics.RecordSourceFetch(string(source.KindHF), observability.FetchStatus(err), time.Since(start))
	return batch, err
}

// readPages reads the first page to learn the dataset size, then fetches the
// remaining pages concurrently and reassembles them in offset order.
func (s *Source) readPages(ctx context.Context) (*source.Batch, error) {
	first, err := s.client.Rows(ctx, s.page(0, s.cfg.PageSize))
	if err != nil {
		return nil, err
	}

	total := first.NumRowsTotal
	if total < len(first.Rows) {
		total = len(first.Rows)
	}
	limit := min(total, s.cfg.MaxRows)

	var offsets []int
	for off := len(first.Rows); off < limit && len(first.Rows) > 0; off += s.cfg.PageSize {
		offsets = append(offsets, off)
	}

	pages := make([][]RowItem, len(offsets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrentPages)

	for i, off := range offsets {
		g.Go(func() error {
			resp, err := s.client.Rows(gctx, s.page(off, min(s.cfg.PageSize, limit-off)))
			if err != nil {
				return fmt.Errorf("page at offset %d: %w", off, err)
			}
			pages[i] = resp.Rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]domain.RawRow, 0, limit)
	appendRows := func(items []RowItem) {
		for _, item := range items {
			if len(rows) == limit {
				return
			}
			rows = append(rows, domain.RawRowFromMap(item.Row))
		}
	}
	appendRows(first.Rows)
	for _, p := range pages {
		appendRows(p)
	}

	if total > limit {
		slog.Warn("Dataset larger than row cap, truncating",
			"dataset", s.cfg.Dataset, "total", total, "max_rows", s.cfg.MaxRows)
	}
	slog.Debug("Fetched dataset rows", "dataset", s.cfg.Dataset, "rows", len(rows), "pages", len(offsets)+1)

	return &source.Batch{Rows: rows, Total: total}, nil
}

func (s *Source) page(offset, length int) RowsRequest {
	return RowsRequest{
		Dataset: s.cfg.Dataset,
		Config:  s.cfg.DatasetConfig,
		Split:   s.cfg.Split,
		Offset:  offset,
		Length:  length,
	}
}
