package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load(Config{})
	require.NoError(t, err)

	require.Len(t, c.Datasets, 4)
	assert.Equal(t, "gdelt-rag-sources-v2", c.Datasets[0].ID)

	metrics, ok := c.Dataset("gdelt-rag-evaluation-metrics")
	require.True(t, ok)
	assert.Equal(t, 60, metrics.Records)
	assert.Equal(t, "Cohere Rerank (95.08% avg)", metrics.KeyFindings["winner"])
	assert.Equal(t, []string{"Parquet", "JSONL", "HF Datasets"}, metrics.Format)

	assert.Equal(t, "2025-01-13T00:00:00Z", c.Run["generated_at"])
	assert.Equal(t, "ragas_pipeline_f4df656e-997e-4830-ab75-dc15fa57621c", c.Provenance["id"])

	_, ok = c.Dataset("unknown")
	assert.False(t, ok)
}

func TestManifest_JSONPassthrough(t *testing.T) {
	c, err := Load(Config{})
	require.NoError(t, err)

	body, err := json.Marshal(c.Provenance)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))

	params := decoded["params"].(map[string]any)
	assert.Nil(t, params["MAX_DOCS"])
	assert.Equal(t, float64(10), params["TESTSET_SIZE"])
	assert.Equal(t, "3.11.13", decoded["env"].(map[string]any)["python"])
}

func TestLoad_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: local-run\nrun:\n  random_seed: 7\n"), 0o644))

	c, err := Load(Config{ManifestPath: path})
	require.NoError(t, err)

	assert.Equal(t, "local-run", c.Provenance["id"])
	assert.Len(t, c.Datasets, 4, "other documents stay embedded")
}

func TestLoad_MissingOverride(t *testing.T) {
	_, err := Load(Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestParse_Validation(t *testing.T) {
	run := []byte("llm: {model: x}\n")
	provenance := []byte("id: p\n")

	tests := []struct {
		name     string
		datasets string
		wantErr  string
	}{
		{name: "no datasets", datasets: "datasets: []\n", wantErr: "no datasets"},
		{name: "missing id", datasets: "datasets:\n  - url: https://example.com\n", wantErr: "has no id"},
		{name: "bad url", datasets: "datasets:\n  - id: a\n    url: not-a-url\n", wantErr: "invalid url"},
		{name: "duplicate", datasets: "datasets:\n  - {id: a, url: 'https://x.io'}\n  - {id: a, url: 'https://x.io'}\n", wantErr: "duplicate"},
		{name: "malformed yaml", datasets: "datasets: [", wantErr: "parse catalog YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.datasets), run, provenance)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := Parse([]byte("datasets:\n  - {id: a, url: 'https://x.io'}\n"), run, []byte("env: {}\n"))
	assert.ErrorContains(t, err, "provenance manifest has no id")
}
