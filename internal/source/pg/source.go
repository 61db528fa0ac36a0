// Package pg reads evaluation rows imported into PostgreSQL.
package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/observability"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

const TableName = "evaluation_records"

type Config struct {
	ConnStr      string        `envconfig:"DATABASE_URL"`
	QueryTimeout time.Duration `envconfig:"PG_QUERY_TIMEOUT" default:"10s"`
}

const selectColumns = `
	retriever, user_input, retrieved_contexts, reference_contexts, response, reference,
	synthesizer_name, faithfulness, answer_relevancy, context_precision, context_recall`

type Source struct {
	db      *pgxpool.Pool
	timeout time.Duration
	metrics *observability.Metrics
}

var _ source.RecordSource = (*Source)(nil)

func NewSource(pool *ConnectionPool, timeout time.Duration, metrics *observability.Metrics) *Source {
	return &Source{db: pool.conn, timeout: timeout, metrics: metrics}
}

func (s *Source) Kind() source.Kind {
	return source.KindPG
}

// Fetch matches on the normalized label so rows imported as "Cohere Rerank"
// are served for cohere_rerank.
func (s *Source) Fetch(ctx context.Context, retriever domain.RetrieverID) (*source.Batch, error) {
	if err := domain.ValidateRetriever(retriever); err != nil {
		return nil, err
	}

	query := `SELECT` + selectColumns + `
		FROM evaluation_records
		WHERE lower(replace(retriever, ' ', '_')) = $1
		ORDER BY id`

	return s.run(ctx, "query evaluation records for "+string(retriever), string(retriever), query, string(retriever))
}

func (s *Source) FetchAll(ctx context.Context) (*source.Batch, error) {
	query := `SELECT` + selectColumns + `
		FROM evaluation_records
		ORDER BY id`

	return s.run(ctx, "query evaluation records", source.AllRetrievers, query)
}

func (s *Source) run(ctx context.Context, op, id, query string, args ...any) (*source.Batch, error) {
	start := time.Now()
	batch, err := source.WithTimeout(ctx, s.timeout, op, func(ctx context.Context) (*source.Batch, error) {
		rows, err := s.query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, apperr.NewNotFound("evaluation results", id)
		}
		return &source.Batch{Rows: rows, Total: len(rows)}, nil
	})
	s.metrics.RecordSourceFetch(string(source.KindPG), observability.FetchStatus(err), time.Since(start))
	return batch, err
}

func (s *Source) query(ctx context.Context, query string, args ...any) ([]domain.RawRow, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute evaluation query: %w", err)
	}
	defer rows.Close()

	var out []domain.RawRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluation rows: %w", err)
	}

	slog.Debug("Loaded evaluation rows from postgres", "rows", len(out))
	return out, nil
}

func scanRow(rows pgx.Rows) (domain.RawRow, error) {
	var (
		retriever                      string
		retrievedJSON, referenceJSON   []byte
		faith, relevancy, prec, recall *float64
		row                            domain.RawRow
	)

	if err := rows.Scan(
		&retriever,
		&row.UserInput,
		&retrievedJSON,
		&referenceJSON,
		&row.Response,
		&row.Reference,
		&row.SynthesizerName,
		&faith,
		&relevancy,
		&prec,
		&recall,
	); err != nil {
		return domain.RawRow{}, fmt.Errorf("failed to scan evaluation row: %w", err)
	}

	row.Retriever = &retriever
	row.Faithfulness = domain.OptionalFloat(faith)
	row.AnswerRelevancy = domain.OptionalFloat(relevancy)
	row.ContextPrecision = domain.OptionalFloat(prec)
	row.ContextRecall = domain.OptionalFloat(recall)

	var err error
	if row.RetrievedContexts, err = decodeContexts(retrievedJSON); err != nil {
		return domain.RawRow{}, err
	}
	if row.ReferenceContexts, err = decodeContexts(referenceJSON); err != nil {
		return domain.RawRow{}, err
	}
	return row, nil
}

// decodeContexts returns a []any for jsonb arrays and a string for pseudo-list
// text stored as a json string. Both shapes are accepted by the list decoder.
func decodeContexts(raw []byte) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contexts: %w", err)
	}
	return v, nil
}
