package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

func plainOptions(format Format) Options {
	opts := DefaultOptions()
	opts.Format = format
	opts.UseColors = false
	opts.Precision = 2
	return opts
}

func sampleOverview() *domain.MetricsOverview {
	best := domain.RetrieverSummary{Retriever: domain.RetrieverCohereRerank, Faithfulness: 1, AnswerRelevancy: 1, ContextPrecision: 1, ContextRecall: 0.9, Average: 0.975}
	return &domain.MetricsOverview{
		Metrics: []domain.RetrieverSummary{
			{Retriever: domain.RetrieverNaive, Faithfulness: 0.9, AnswerRelevancy: 0.8, ContextPrecision: 0.9, ContextRecall: 0.9, Average: 0.875},
			best,
		},
		Best: &best,
	}
}

func sampleDetailed() *domain.DetailedResult {
	return &domain.DetailedResult{
		Retriever: domain.RetrieverBM25,
		Summary: domain.EvaluationSummary{
			TotalQueries:   2,
			AverageMetrics: domain.Metrics{Faithfulness: 0.95, AnswerRelevancy: 0.95, ContextPrecision: 0.95, ContextRecall: 0.9},
			FailingQueries: 1,
		},
		Results: []domain.EvaluationRecord{
			{Question: strings.Repeat("long question ", 10), Metrics: domain.Metrics{Faithfulness: 0.9, AnswerRelevancy: 0.9, ContextPrecision: 0.9, ContextRecall: 0.8}},
			{Question: "short", Metrics: domain.Metrics{Faithfulness: 1, AnswerRelevancy: 1, ContextPrecision: 1, ContextRecall: 1}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestWriteOverview_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOverview(&buf, sampleOverview(), plainOptions(FormatTable)))

	out := buf.String()
	assert.Contains(t, out, "naive")
	assert.Contains(t, out, "cohere_rerank *")
	assert.Contains(t, out, "0.88")
	assert.Contains(t, out, "87.50")
	assert.Contains(t, out, "Best performer: cohere_rerank (average 0.97)")
	assert.Contains(t, out, "Retrievers: 2")
}

func TestWriteOverview_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOverview(&buf, sampleOverview(), plainOptions(FormatJSON)))

	var decoded struct {
		Metrics []domain.RetrieverSummary `json:"metrics"`
		Best    domain.RetrieverSummary   `json:"best"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Metrics, 2)
	assert.Equal(t, domain.RetrieverCohereRerank, decoded.Best.Retriever)
}

func TestWriteDetailed_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailed(&buf, sampleDetailed(), plainOptions(FormatTable)))

	out := buf.String()
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "Retriever: bm25")
	assert.Contains(t, out, "Total queries: 2, Failing queries: 1")
}

func TestWriteDetailed_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailed(&buf, sampleDetailed(), plainOptions(FormatJSON)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "bm25", decoded["retriever"])
	assert.Len(t, decoded["results"], 2)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}
