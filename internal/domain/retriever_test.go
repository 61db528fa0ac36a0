package domain

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRetrieverName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cohere Rerank", "cohere_rerank"},
		{"BM25", "bm25"},
		{"naive", "naive"},
		{"Ensemble  Mix", "ensemble__mix"},
		{" Padded ", "_padded_"},
		{"Multi-Query (v2)", "multi-query_(v2)"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeRetrieverName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeRetrieverName(got), "normalize must be idempotent")
		})
	}
}

func TestParseRetriever(t *testing.T) {
	for _, id := range AllowedRetrievers() {
		got, err := ParseRetriever(string(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := ParseRetriever("gpt4")
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "naive, bm25, ensemble, cohere_rerank")

	_, err = ParseRetriever("Cohere Rerank")
	assert.Error(t, err, "raw labels are not accepted without normalization")
}

func TestAllowedRetrievers_ReturnsCopy(t *testing.T) {
	ids := AllowedRetrievers()
	ids[0] = "mutated"

	assert.Equal(t, RetrieverNaive, AllowedRetrievers()[0])
}
