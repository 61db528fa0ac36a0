// Package eval turns raw source rows into the evaluation payloads served by
// the API.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/eval/metrics"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/parser"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

type Option func(*Assembler)

// WithMetrics counts context lists that degrade to empty.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Assembler) {
		a.decoder.OnDegrade = func(error) {
			m.RecordDecodeDegraded()
		}
	}
}

// Assembler owns the row to record transformation for one request at a time.
// It holds no per-request state and is safe for concurrent use.
type Assembler struct {
	src     source.RecordSource
	decoder *parser.ListDecoder
}

func NewAssembler(src source.RecordSource, opts ...Option) *Assembler {
	a := &Assembler{
		src:     src,
		decoder: &parser.ListDecoder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Detailed returns every record of one retriever with its summary.
func (a *Assembler) Detailed(ctx context.Context, retriever string) (*domain.DetailedResult, error) {
	id, err := domain.ParseRetriever(retriever)
	if err != nil {
		return nil, err
	}

	batch, err := a.src.Fetch(ctx, id)
	if err != nil {
		a.logFetchError(err, "retriever", id)
		return nil, fmt.Errorf("fetch %s rows: %w", id, err)
	}

	records := make([]domain.EvaluationRecord, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		if row.Retriever == nil || domain.NormalizeRetrieverName(*row.Retriever) != string(id) {
			continue
		}
		records = append(records, a.toRecord(row))
	}

	slog.Debug("Assembled detailed results",
		"retriever", id, "source", a.src.Kind(), "rows", len(batch.Rows), "matched", len(records))

	return &domain.DetailedResult{
		Retriever: id,
		Summary:   metrics.Summarize(records),
		Results:   records,
	}, nil
}

// Overview summarizes every retriever found in the source. The manifest is
// attached by the caller.
func (a *Assembler) Overview(ctx context.Context) (*domain.MetricsOverview, error) {
	batch, err := a.src.FetchAll(ctx)
	if err != nil {
		a.logFetchError(err)
		return nil, fmt.Errorf("fetch all rows: %w", err)
	}

	records := make([]domain.EvaluationRecord, 0, len(batch.Rows))
	skipped := 0
	for _, row := range batch.Rows {
		if row.Retriever == nil {
			skipped++
			continue
		}
		records = append(records, a.toRecord(row))
	}
	if skipped > 0 {
		slog.Warn("Skipped rows without a retriever label", "source", a.src.Kind(), "skipped", skipped)
	}

	summaries := metrics.Summaries(metrics.GroupByRetriever(records))

	overview := &domain.MetricsOverview{Metrics: summaries}
	if best, ok := metrics.BestPerformer(summaries); ok {
		overview.Best = &best
	}
	return overview, nil
}

// toRecord is the only place where absent fields receive defaults.
func (a *Assembler) toRecord(row domain.RawRow) domain.EvaluationRecord {
	return domain.EvaluationRecord{
		Question:          deref(row.UserInput),
		Retriever:         domain.RetrieverID(domain.NormalizeRetrieverName(deref(row.Retriever))),
		RetrievedContexts: a.decoder.Decode(row.RetrievedContexts),
		ReferenceContexts: a.decoder.Decode(row.ReferenceContexts),
		Response:          deref(row.Response),
		Reference:         deref(row.Reference),
		SynthesizerName:   deref(row.SynthesizerName),
		Metrics: domain.Metrics{
			Faithfulness:     metricOrZero(row.Faithfulness),
			AnswerRelevancy:  metricOrZero(row.AnswerRelevancy),
			ContextPrecision: metricOrZero(row.ContextPrecision),
			ContextRecall:    metricOrZero(row.ContextRecall),
		},
	}
}

func (a *Assembler) logFetchError(err error, attrs ...any) {
	attrs = append(attrs, "source", a.src.Kind(), "error", err)

	var validationErr *apperr.ValidationError
	var notFound *apperr.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return
	case errors.As(err, &notFound):
		slog.Info("No evaluation rows found", attrs...)
	default:
		slog.Error("Failed to load evaluation rows", attrs...)
	}
}

func metricOrZero(v any) float64 {
	f, _ := domain.ParseMetric(v)
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
