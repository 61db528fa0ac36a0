package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	pkgtesting "github.com/DjordjeVuckovic/rag-insight/pkg/testing"
)

func TestDecodeContexts(t *testing.T) {
	v, err := decodeContexts(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = decodeContexts([]byte(`["a", "b"]`))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)

	v, err = decodeContexts([]byte(`"['a', 'b']"`))
	require.NoError(t, err)
	assert.Equal(t, "['a', 'b']", v)

	_, err = decodeContexts([]byte(`{`))
	assert.Error(t, err)
}

func TestSource_InvalidRetrieverNoIO(t *testing.T) {
	// A nil pool would panic on any query.
	src := &Source{}

	_, err := src.Fetch(t.Context(), "gpt4")

	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func newTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	ctx := context.Background()
	container := pkgtesting.NewPGContainer(ctx, t)

	pool, err := NewConnectionPool(ctx, PoolConfig{ConnStr: container.ConnString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestSource_Integration(t *testing.T) {
	pool := newTestPool(t)
	ctx := t.Context()

	store := NewStore(pool)
	n, err := store.Insert(ctx, []domain.RawRow{
		{
			Retriever:         domain.StringPtr("Cohere Rerank"),
			UserInput:         domain.StringPtr("q1"),
			RetrievedContexts: "['a', 'b']",
			ReferenceContexts: []string{"ref"},
			Faithfulness:      "0.9",
			AnswerRelevancy:   0.8,
			ContextPrecision:  "n/a",
		},
		{
			UserInput:     domain.StringPtr("q2"),
			Faithfulness:  1.0,
			ContextRecall: 0.5,
		},
		{
			Retriever: domain.StringPtr("BM25"),
			UserInput: domain.StringPtr("q3"),
		},
	}, domain.RetrieverCohereRerank)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	src := NewSource(pool, 5*time.Second, nil)

	t.Run("fetch matches normalized label", func(t *testing.T) {
		batch, err := src.Fetch(ctx, domain.RetrieverCohereRerank)
		require.NoError(t, err)
		require.Len(t, batch.Rows, 2)

		first := batch.Rows[0]
		assert.Equal(t, "Cohere Rerank", *first.Retriever)
		assert.Equal(t, "['a', 'b']", first.RetrievedContexts)
		assert.Equal(t, []any{"ref"}, first.ReferenceContexts)
		assert.Equal(t, 0.9, first.Faithfulness)
		assert.Nil(t, first.ContextPrecision, "unparsable metrics are stored as NULL")
		assert.Nil(t, first.Response)

		assert.Equal(t, "cohere_rerank", *batch.Rows[1].Retriever, "fallback label applied on insert")
	})

	t.Run("fetch all", func(t *testing.T) {
		batch, err := src.FetchAll(ctx)
		require.NoError(t, err)
		assert.Len(t, batch.Rows, 3)
		assert.Equal(t, "q3", *batch.Rows[2].UserInput)
	})

	t.Run("no rows for valid retriever", func(t *testing.T) {
		_, err := src.Fetch(ctx, domain.RetrieverEnsemble)
		var notFound *apperr.NotFoundError
		assert.True(t, errors.As(err, &notFound))
	})

	t.Run("delete retriever", func(t *testing.T) {
		deleted, err := store.DeleteRetriever(ctx, domain.RetrieverBM25)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)
	})

	t.Run("replace rolls back as a unit", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		require.NoError(t, err)

		deleted, err := tx.DeleteRetriever(ctx, domain.RetrieverCohereRerank)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
		_, err = tx.Insert(ctx, []domain.RawRow{{UserInput: domain.StringPtr("q9")}}, domain.RetrieverCohereRerank)
		require.NoError(t, err)

		require.NoError(t, tx.Rollback(ctx))

		batch, err := src.Fetch(ctx, domain.RetrieverCohereRerank)
		require.NoError(t, err)
		assert.Len(t, batch.Rows, 2, "rows survive a failed replace")
	})

	t.Run("replace commits", func(t *testing.T) {
		tx, err := store.Begin(ctx)
		require.NoError(t, err)

		_, err = tx.DeleteRetriever(ctx, domain.RetrieverCohereRerank)
		require.NoError(t, err)
		_, err = tx.Insert(ctx, []domain.RawRow{{UserInput: domain.StringPtr("q9")}}, domain.RetrieverCohereRerank)
		require.NoError(t, err)

		require.NoError(t, tx.Commit(ctx))
		require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

		batch, err := src.Fetch(ctx, domain.RetrieverCohereRerank)
		require.NoError(t, err)
		require.Len(t, batch.Rows, 1)
		assert.Equal(t, "q9", *batch.Rows[0].UserInput)
	})

	t.Run("health checker", func(t *testing.T) {
		assert.True(t, NewHealthChecker(pool).Healthy(ctx))
		assert.False(t, NewHealthChecker(nil).Healthy(ctx))
	})
}
