package hf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
	"github.com/DjordjeVuckovic/rag-insight/internal/cache"
	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
)

var labels = []string{"Naive", "BM25", "Ensemble", "Cohere Rerank"}

// fakeDatasetServer serves total rows through the /rows endpoint.
type fakeDatasetServer struct {
	total int
	hits  atomic.Int32
	*httptest.Server
}

func newFakeDatasetServer(t *testing.T, total int) *fakeDatasetServer {
	t.Helper()
	f := &fakeDatasetServer{total: total}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if r.URL.Path != "/rows" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		length, _ := strconv.Atoi(q.Get("length"))

		resp := RowsResponse{NumRowsTotal: f.total, NumRowsPerPage: MaxPageLength}
		for i := offset; i < f.total && i < offset+length; i++ {
			resp.Rows = append(resp.Rows, RowItem{
				RowIdx: i,
				Row: map[string]any{
					"retriever":          labels[i%len(labels)],
					"user_input":         fmt.Sprintf("q%d", i),
					"retrieved_contexts": []any{"ctx"},
					"faithfulness":       0.9,
				},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.Close)
	return f
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RateLimitRPS = 0
	return cfg
}

func newTestSource(t *testing.T, cfg Config, opts ...ClientOption) *Source {
	t.Helper()
	client, err := NewClient(cfg.BaseURL, opts...)
	require.NoError(t, err)
	return NewSource(client, cfg, nil)
}

func TestClient_Rows(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(`{
			"rows": [{"row_idx": 0, "row": {"retriever": "BM25", "faithfulness": 1}, "truncated_cells": []}],
			"features": [{"feature_idx": 0, "name": "retriever", "type": {"dtype": "string"}}],
			"num_rows_total": 48, "num_rows_per_page": 100, "partial": false
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := client.Rows(t.Context(), RowsRequest{
		Dataset: DefaultDataset, Config: "default", Split: "train", Offset: 0, Length: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"dataset": DefaultDataset,
		"config":  "default",
		"split":   "train",
		"offset":  "0",
		"length":  "100",
	}, gotQuery)
	assert.Equal(t, 48, resp.NumRowsTotal)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "BM25", resp.Rows[0].Row["retriever"])
	assert.Equal(t, "retriever", resp.Features[0].Name)
}

func TestClampLength(t *testing.T) {
	assert.Equal(t, 1, ClampLength(0))
	assert.Equal(t, 1, ClampLength(-5))
	assert.Equal(t, 50, ClampLength(50))
	assert.Equal(t, 100, ClampLength(100))
	assert.Equal(t, 100, ClampLength(101))
}

func TestClient_RemoteFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "upstream exploded", wantStatus: 500},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"dataset not found"}`, wantStatus: 404},
		{name: "non json body", status: http.StatusOK, body: "<html>maintenance</html>", wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := newTestSource(t, testConfig(srv.URL))
			_, err := src.FetchAll(t.Context())

			var fetchErr *apperr.RemoteFetchError
			require.True(t, errors.As(err, &fetchErr), "got %v", err)
			assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
			assert.Equal(t, tt.body, fetchErr.Body)
		})
	}
}

func TestSource_InvalidRetrieverNoIO(t *testing.T) {
	srv := newFakeDatasetServer(t, 10)
	src := newTestSource(t, testConfig(srv.URL))

	_, err := src.Fetch(t.Context(), "gpt4")

	var validationErr *apperr.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "naive, bm25, ensemble, cohere_rerank")
	assert.Equal(t, int32(0), srv.hits.Load(), "no request may reach the server")
}

func TestSource_FetchAllPages(t *testing.T) {
	srv := newFakeDatasetServer(t, 250)
	cfg := testConfig(srv.URL)
	src := newTestSource(t, cfg)

	batch, err := src.FetchAll(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 250, batch.Total)
	require.Len(t, batch.Rows, 250)
	for i, row := range batch.Rows {
		require.NotNil(t, row.UserInput)
		assert.Equal(t, fmt.Sprintf("q%d", i), *row.UserInput, "rows must stay in offset order")
	}
	assert.Equal(t, int32(3), srv.hits.Load())
}

func TestSource_MaxRowsCap(t *testing.T) {
	srv := newFakeDatasetServer(t, 250)
	cfg := testConfig(srv.URL)
	cfg.MaxRows = 150
	src := newTestSource(t, cfg)

	batch, err := src.FetchAll(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 250, batch.Total)
	assert.Len(t, batch.Rows, 150)
	assert.Equal(t, "q149", *batch.Rows[149].UserInput)
}

func TestSource_FetchReturnsAllRetrievers(t *testing.T) {
	srv := newFakeDatasetServer(t, 8)
	src := newTestSource(t, testConfig(srv.URL))

	batch, err := src.Fetch(t.Context(), domain.RetrieverBM25)
	require.NoError(t, err)

	assert.Len(t, batch.Rows, 8)
	assert.Equal(t, "Cohere Rerank", *batch.Rows[3].Retriever)
	assert.Equal(t, []any{"ctx"}, batch.Rows[0].RetrievedContexts)
}

func TestSource_CachedPagesSkipNetwork(t *testing.T) {
	srv := newFakeDatasetServer(t, 40)
	mem := cache.NewMemory()
	src := newTestSource(t, testConfig(srv.URL), WithCache(mem, time.Hour))

	first, err := src.FetchAll(t.Context())
	require.NoError(t, err)
	second, err := src.FetchAll(t.Context())
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, 1, mem.Len())
}

func TestSource_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := newTestSource(t, testConfig(srv.URL), WithCache(cache.NewMemory(), time.Hour))

	_, err := src.FetchAll(t.Context())
	require.Error(t, err)
	_, err = src.FetchAll(t.Context())
	require.Error(t, err)

	assert.Equal(t, int32(2), hits.Load())
}

func TestSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.FetchTimeout = 50 * time.Millisecond
	src := newTestSource(t, cfg)

	_, err := src.Fetch(t.Context(), domain.RetrieverNaive)

	var timeoutErr *apperr.TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
}

func TestSource_CallerCancellation(t *testing.T) {
	srv := newFakeDatasetServer(t, 10)
	src := newTestSource(t, testConfig(srv.URL))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := src.FetchAll(ctx)

	require.Error(t, err)
	var timeoutErr *apperr.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Dataset = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxRows = 0
	assert.Error(t, cfg.Validate())
}

func TestSource_RateLimitWaitPastDeadline(t *testing.T) {
	srv := newFakeDatasetServer(t, 4)
	cfg := testConfig(srv.URL)
	cfg.FetchTimeout = 200 * time.Millisecond

	src := newTestSource(t, cfg, WithRateLimit(0.5, 1))

	_, err := src.Fetch(t.Context(), domain.RetrieverNaive)
	require.NoError(t, err)

	start := time.Now()
	_, err = src.Fetch(t.Context(), domain.RetrieverNaive)

	var timeoutErr *apperr.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, cfg.FetchTimeout, timeoutErr.Timeout)
	assert.Less(t, time.Since(start), time.Second, "the limiter gives up without waiting")
	assert.EqualValues(t, 1, srv.hits.Load())
}
