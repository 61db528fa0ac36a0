package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

// Indexer loads evaluation rows into the index the Source reads from.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	now       func() time.Time

	mu        sync.Mutex
	positions map[string]int
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexer := &Indexer{
		client:    client,
		indexName: config.IndexName,
		now:       time.Now,
		positions: make(map[string]int),
	}

	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return indexer, nil
}

// Index bulk-indexes rows. Document ids are <retriever_id>-<position>, where
// positions keep counting across Index calls on the same Indexer, so batches
// of one import never collide while a later import overwrites earlier rows.
func (ix *Indexer) Index(ctx context.Context, rows []domain.RawRow, fallback domain.RetrieverID) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         ix.indexName,
		Client:        ix.client,
		NumWorkers:    4,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64
	now := ix.now()

	for _, row := range rows {
		label := string(fallback)
		if row.Retriever != nil {
			label = *row.Retriever
		}
		doc := toDocument(row, label, ix.nextPosition(domain.NormalizeRetrieverName(label)), now)

		docBytes, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal document", "error", err, "retriever", doc.RetrieverID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: fmt.Sprintf("%s-%d", doc.RetrieverID, doc.RowIdx),
			Body:       bytes.NewReader(docBytes),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return successful.Load(), fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("Bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(rows),
		"index", ix.indexName)

	if failed.Load() > 0 {
		return successful.Load(), fmt.Errorf("failed to index %d out of %d rows", failed.Load(), len(rows))
	}
	return successful.Load(), nil
}

func (ix *Indexer) nextPosition(retrieverID string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	pos := ix.positions[retrieverID]
	ix.positions[retrieverID] = pos + 1
	return pos
}

func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := ix.client.Indices.Exists(ix.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", ix.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"retriever_id":       types.NewKeywordProperty(),
			"retriever":          types.NewKeywordProperty(),
			"row_idx":            types.NewIntegerNumberProperty(),
			"user_input":         types.NewTextProperty(),
			"retrieved_contexts": types.NewTextProperty(),
			"reference_contexts": types.NewTextProperty(),
			"response":           types.NewTextProperty(),
			"reference":          types.NewTextProperty(),
			"synthesizer_name":   types.NewKeywordProperty(),
			"faithfulness":       types.NewDoubleNumberProperty(),
			"answer_relevancy":   types.NewDoubleNumberProperty(),
			"context_precision":  types.NewDoubleNumberProperty(),
			"context_recall":     types.NewDoubleNumberProperty(),
			"imported_at":        types.NewDateProperty(),
		},
	}

	createRes, err := ix.client.Indices.Create(ix.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", ix.indexName)
	return nil
}
