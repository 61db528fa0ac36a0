package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/rag-insight/internal/apperr"
)

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordSourceFetch("hf", "ok", time.Second)
		m.RecordCacheLookup(true)
		m.RecordDecodeDegraded()
		m.RecordGraphRequest("ok")
		m.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	})
	assert.NotNil(t, m.Handler())
}

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSourceFetch("file", "ok", 10*time.Millisecond)
	m.RecordSourceFetch("file", "not_found", time.Millisecond)
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.RecordDecodeDegraded()

	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceFetchCounter.WithLabelValues("file", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SourceFetchCounter.WithLabelValues("file", "not_found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DecodeDegraded), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordDecodeDegraded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "raginsight_list_decode_degraded_total 1")
}

func TestMetrics_Middleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/evaluation/detailed/:retriever", func(c echo.Context) error {
		if c.Param("retriever") == "gpt4" {
			return apperr.NewValidation("invalid retriever")
		}
		return c.NoContent(http.StatusOK)
	})
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	for _, id := range []string{"naive", "bm25", "gpt4"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/evaluation/detailed/"+id, nil))
	}

	// Both successful calls share the route pattern series; the 400 gets its own.
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestFetchStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "ok"},
		{name: "not found", err: fmt.Errorf("fetch: %w", apperr.NewNotFound("evaluation results", "naive")), want: "not_found"},
		{name: "timeout", err: apperr.NewTimeout("fetch rows", time.Second, context.DeadlineExceeded), want: "timeout"},
		{name: "deadline", err: context.DeadlineExceeded, want: "timeout"},
		{name: "other", err: errors.New("boom"), want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FetchStatus(tt.err))
		})
	}
}
