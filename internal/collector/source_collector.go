package collector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

// SourceCollector streams the rows of each requested retriever from a
// RecordSource. Every emitted row carries a retriever label.
type SourceCollector struct {
	Source     source.RecordSource
	Retrievers []domain.RetrieverID
}

func NewSourceCollector(src source.RecordSource, retrievers ...domain.RetrieverID) *SourceCollector {
	if len(retrievers) == 0 {
		retrievers = domain.AllowedRetrievers()
	}
	return &SourceCollector{
		Source:     src,
		Retrievers: retrievers,
	}
}

func (sc *SourceCollector) Collect(ctx context.Context) (<-chan Result[domain.RawRow], error) {
	for _, id := range sc.Retrievers {
		if err := domain.ValidateRetriever(id); err != nil {
			return nil, err
		}
	}

	out := make(chan Result[domain.RawRow])
	go func() {
		defer close(out)

		for _, id := range sc.Retrievers {
			batch, err := sc.Source.Fetch(ctx, id)
			if err != nil {
				var nf *apperr.NotFoundError
				if errors.As(err, &nf) {
					slog.Info("No rows for retriever, skipping", "retriever", id, "source", sc.Source.Kind())
					continue
				}
				if !send(ctx, out, Result[domain.RawRow]{Err: err}) {
					return
				}
				continue
			}

			for _, row := range batch.Rows {
				if row.Retriever == nil {
					row.Retriever = domain.StringPtr(string(id))
				} else if domain.NormalizeRetrieverName(*row.Retriever) != string(id) {
					continue
				}
				if !send(ctx, out, Result[domain.RawRow]{Item: row}) {
					return
				}
			}
		}
	}()

	return out, nil
}

func send[T any](ctx context.Context, out chan<- Result[T], res Result[T]) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- res:
		return true
	}
}
