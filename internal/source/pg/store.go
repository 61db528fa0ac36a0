package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

var storeColumns = []string{
	"retriever", "user_input", "retrieved_contexts", "reference_contexts", "response", "reference",
	"synthesizer_name", "faithfulness", "answer_relevancy", "context_precision", "context_recall",
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store imports evaluation rows, used by the eval_report import command.
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{pool: pool.conn, db: pool.conn}
}

// ImportTx is a Store bound to one transaction. Deletes and inserts made
// through it become visible together on Commit.
type ImportTx struct {
	*Store
	tx pgx.Tx
}

func (s *Store) Begin(ctx context.Context) (*ImportTx, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("store is already bound to a transaction")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	return &ImportTx{Store: &Store{db: tx}, tx: tx}, nil
}

func (t *ImportTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is a no-op after Commit.
func (t *ImportTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to roll back import: %w", err)
	}
	return nil
}

// Insert copies rows in one round trip. Rows without a retriever label get
// fallback. Metric values that do not parse are stored as NULL.
func (s *Store) Insert(ctx context.Context, rows []domain.RawRow, fallback domain.RetrieverID) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, 0, len(rows))
	for i, r := range rows {
		retrieved, err := encodeContexts(r.RetrievedContexts)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		reference, err := encodeContexts(r.ReferenceContexts)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}

		label := string(fallback)
		if r.Retriever != nil {
			label = *r.Retriever
		}
		if label == "" {
			return 0, fmt.Errorf("row %d: missing retriever label", i)
		}

		values = append(values, []any{
			label,
			r.UserInput,
			retrieved,
			reference,
			r.Response,
			r.Reference,
			r.SynthesizerName,
			domain.NullableMetric(r.Faithfulness),
			domain.NullableMetric(r.AnswerRelevancy),
			domain.NullableMetric(r.ContextPrecision),
			domain.NullableMetric(r.ContextRecall),
		})
	}

	n, err := s.db.CopyFrom(ctx, pgx.Identifier{TableName}, storeColumns, pgx.CopyFromRows(values))
	if err != nil {
		return 0, fmt.Errorf("failed to copy evaluation rows: %w", err)
	}

	slog.Info("Imported evaluation rows", "table", TableName, "rows", n)
	return n, nil
}

// DeleteRetriever removes previously imported rows for one retriever.
func (s *Store) DeleteRetriever(ctx context.Context, retriever domain.RetrieverID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM evaluation_records WHERE lower(replace(retriever, ' ', '_')) = $1`, string(retriever))
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s rows: %w", retriever, err)
	}
	return tag.RowsAffected(), nil
}

func encodeContexts(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contexts: %w", err)
	}
	return b, nil
}
