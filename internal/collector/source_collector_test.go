package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
)

type stubSource map[domain.RetrieverID][]domain.RawRow

func (s stubSource) Kind() source.Kind { return "stub" }

func (s stubSource) Fetch(_ context.Context, id domain.RetrieverID) (*source.Batch, error) {
	if id == domain.RetrieverCohereRerank {
		return nil, errors.New("read failed")
	}
	rows, ok := s[id]
	if !ok {
		return nil, apperr.NewNotFound("evaluation results for retriever", string(id))
	}
	return &source.Batch{Rows: rows, Total: len(rows)}, nil
}

func (s stubSource) FetchAll(context.Context) (*source.Batch, error) {
	return nil, errors.New("not used")
}

func TestSourceCollector_Collect(t *testing.T) {
	src := stubSource{
		domain.RetrieverNaive: {
			{UserInput: domain.StringPtr("a")},
			{UserInput: domain.StringPtr("b"), Retriever: domain.StringPtr("bm25")},
		},
		domain.RetrieverBM25: {
			{UserInput: domain.StringPtr("c"), Retriever: domain.StringPtr("BM25")},
		},
	}

	ch, err := NewSourceCollector(src, domain.RetrieverNaive, domain.RetrieverBM25, domain.RetrieverEnsemble).Collect(t.Context())
	require.NoError(t, err)

	rows, err := Drain(ch)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "naive", *rows[0].Retriever)
	assert.Equal(t, "a", *rows[0].UserInput)
	assert.Equal(t, "BM25", *rows[1].Retriever)
}

func TestSourceCollector_Errors(t *testing.T) {
	t.Run("fetch error is emitted", func(t *testing.T) {
		src := stubSource{domain.RetrieverNaive: {{UserInput: domain.StringPtr("a")}}}

		ch, err := NewSourceCollector(src, domain.RetrieverCohereRerank, domain.RetrieverNaive).Collect(t.Context())
		require.NoError(t, err)

		rows, err := Drain(ch)
		require.EqualError(t, err, "read failed")
		assert.Len(t, rows, 1)
	})

	t.Run("unknown retriever", func(t *testing.T) {
		_, err := NewSourceCollector(stubSource{}, "gpt4").Collect(t.Context())

		var vErr *apperr.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
