package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

const csvHeader = "user_input,retrieved_contexts,reference_contexts,response,reference,faithfulness,answer_relevancy,context_precision,context_recall\n"

// execute runs a freshly built command tree in-process.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t.Context(), args...)
}

func executeContext(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestConvertThenReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naive.csv"), []byte(csvHeader+
		"q1,\"['a', 'b']\",['r'],ans,ref,0.9,0.9,0.9,0.8\n"+
		"q2,[],[],ans,ref,1,1,1,1\n"), 0o644))
	t.Setenv("FILE_SOURCE_DIR", dir)

	out, err := execute(t, "convert", "--dir", dir, "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")
	assert.FileExists(t, filepath.Join(dir, "naive.parquet"))

	out, err = execute(t, "detail", "naive", "--source", "file", "--format", "json", "--no-color")
	require.NoError(t, err)

	var detailed struct {
		Retriever string `json:"retriever"`
		Summary   struct {
			TotalQueries   int `json:"totalQueries"`
			FailingQueries int `json:"failingQueries"`
		} `json:"summary"`
		Results []struct {
			RetrievedContexts []string `json:"retrievedContexts"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detailed))
	assert.Equal(t, "naive", detailed.Retriever)
	assert.Equal(t, 2, detailed.Summary.TotalQueries)
	assert.Equal(t, 1, detailed.Summary.FailingQueries)
	assert.Equal(t, []string{"a", "b"}, detailed.Results[0].RetrievedContexts)

	out, err = execute(t, "metrics", "--source", "file", "--format", "table", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "naive *")
	assert.Contains(t, out, "Best performer: naive")
}

func TestDetail_RejectsUnknownRetriever(t *testing.T) {
	_, err := execute(t, "detail", "gpt4", "--format", "json")

	var vErr *apperr.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "metrics", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestConvert_NoFiles(t *testing.T) {
	_, err := execute(t, "convert", "--dir", t.TempDir(), "--format", "table")
	assert.ErrorContains(t, err, "no csv result files")
}

func TestExecute_EachRunUsesItsOwnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := executeContext(ctx, "convert", "--dir", t.TempDir())
	require.ErrorIs(t, err, context.Canceled)

	_, err = execute(t, "convert", "--dir", t.TempDir())
	assert.ErrorContains(t, err, "no csv result files")
}

func TestExecute_FlagsResetBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bm25.csv"), []byte(csvHeader+
		"q1,[],[],ans,ref,0.9,0.9,0.9,0.9\n"), 0o644))
	t.Setenv("FILE_SOURCE_DIR", dir)

	out, err := execute(t, "metrics", "--source", "file", "--format", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	out, err = execute(t, "metrics", "--source", "file", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Best performer: bm25", "format falls back to table")
}
