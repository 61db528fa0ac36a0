package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

type Source struct {
	client    *elasticsearch.TypedClient
	indexName string
	maxDocs   int
	timeout   time.Duration
	metrics   *observability.Metrics
}

var _ source.RecordSource = (*Source)(nil)

func NewSource(config ClientConfig, metrics *observability.Metrics) (*Source, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	maxDocs := config.MaxDocs
	if maxDocs < 1 {
		maxDocs = 1000
	}

	return &Source{
		client:    client,
		indexName: config.IndexName,
		maxDocs:   maxDocs,
		timeout:   config.QueryTimeout,
		metrics:   metrics,
	}, nil
}

func (s *Source) Kind() source.Kind {
	return source.KindES
}

func (s *Source) Fetch(ctx context.Context, retriever domain.RetrieverID) (*source.Batch, error) {
	if err := domain.ValidateRetriever(retriever); err != nil {
		return nil, err
	}

	query := &types.Query{
		Term: map[string]types.TermQuery{
			"retriever_id": {Value: string(retriever)},
		},
	}
	return s.search(ctx, "search evaluation records for "+string(retriever), string(retriever), query)
}

func (s *Source) FetchAll(ctx context.Context) (*source.Batch, error) {
	query := &types.Query{MatchAll: &types.MatchAllQuery{}}
	return s.search(ctx, "search evaluation records", source.AllRetrievers, query)
}

func (s *Source) search(ctx context.Context, op, id string, query *types.Query) (*source.Batch, error) {
	start := time.Now()
	batch, err := source.WithTimeout(ctx, s.timeout, op, func(ctx context.Context) (*source.Batch, error) {
		return s.do(ctx, id, query)
	})
	s.metrics.RecordSourceFetch(string(source.KindES), observability.FetchStatus(err), time.Since(start))
	return batch, err
}

func (s *Source) do(ctx context.Context, id string, query *types.Query) (*source.Batch, error) {
	asc := sortorder.Asc
	res, err := s.client.Search().
		Index(s.indexName).
		Query(query).
		Size(s.maxDocs).
		Sort(
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"retriever_id": {Order: &asc},
				},
			},
			&types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"row_idx": {Order: &asc},
				},
			},
		).
		Do(ctx)
	if err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == http.StatusNotFound {
			slog.Warn("Evaluation index does not exist", "index", s.indexName)
			return nil, apperr.NewNotFound("evaluation results", id)
		}
		slog.Error("Elasticsearch query failed", "error", err, "index", s.indexName)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	rows := make([]domain.RawRow, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var fields map[string]any
		if err := json.Unmarshal(hit.Source_, &fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hit source: %w", err)
		}
		rows = append(rows, domain.RawRowFromMap(fields))
	}

	if len(rows) == 0 {
		return nil, apperr.NewNotFound("evaluation results", id)
	}

	total := len(rows)
	if res.Hits.Total != nil && int(res.Hits.Total.Value) > total {
		total = int(res.Hits.Total.Value)
	}

	slog.Debug("Es evaluation rows fetched", "index", s.indexName, "returned", len(rows), "total", total)
	return &source.Batch{Rows: rows, Total: total}, nil
}
