package factory

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/cache"
	"github.com/DjordjeVuckovic/rag-insight/internal/source"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/file"
	"github.com/DjordjeVuckovic/rag-insight/internal/source/hf"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SOURCE_TYPE", "CACHE_TYPE", "CACHE_TTL", "HF_DATASET", "HF_MAX_ROWS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, source.KindHF, cfg.Type)
	assert.Equal(t, hf.DefaultDataset, cfg.HF.Dataset)
	assert.Equal(t, 1000, cfg.HF.MaxRows)
	assert.Equal(t, cache.TypeMemory, cfg.Cache.Type)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("SOURCE_TYPE", "file")
	t.Setenv("FILE_SOURCE_DIR", "/data/runs")
	t.Setenv("CACHE_TYPE", "none")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, source.KindFile, cfg.Type)
	assert.Equal(t, "/data/runs", cfg.File.Dir)
	assert.Equal(t, cache.TypeNone, cfg.Cache.Type)
}

func TestLoadConfigFor_OverridesType(t *testing.T) {
	t.Setenv("SOURCE_TYPE", "hf")
	t.Setenv("FILE_SOURCE_DIR", "/data/runs")

	cfg, err := LoadConfigFor(source.KindFile)
	require.NoError(t, err)
	assert.Equal(t, source.KindFile, cfg.Type)

	t.Setenv("DATABASE_URL", "")
	_, err = LoadConfigFor(source.KindPG)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown type", func(t *testing.T) {
		t.Setenv("SOURCE_TYPE", "s3")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid SOURCE_TYPE")
	})

	t.Run("pg without connection string", func(t *testing.T) {
		t.Setenv("SOURCE_TYPE", "pg")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})
}

func TestNewSource(t *testing.T) {
	cfg := &Config{
		Type: source.KindFile,
		File: file.Config{Dir: t.TempDir()},
	}

	built, err := NewSource(t.Context(), cfg, nil)
	require.NoError(t, err)
	defer built.Close()

	assert.Equal(t, source.KindFile, built.Source.Kind())
	assert.True(t, built.HealthChecker.Healthy(t.Context()))

	hfCfg := &Config{Type: source.KindHF, HF: hf.DefaultConfig(), Cache: cache.Config{Type: cache.TypeMemory}}
	built, err = NewSource(t.Context(), hfCfg, nil)
	require.NoError(t, err)
	assert.Equal(t, source.KindHF, built.Source.Kind())

	_, err = NewSource(t.Context(), &Config{Type: "s3"}, nil)
	assert.Error(t, err)
}
