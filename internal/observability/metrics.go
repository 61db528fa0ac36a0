package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the Prometheus series exported on /metrics.
//
// All recording methods are safe on a nil receiver so components can be
// constructed without metrics in tests and CLIs.
//
// Usage:
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	m.RecordSourceFetch("hf", "ok", time.Since(start))
type Metrics struct {
	// HTTPRequestDuration measures API latency.
	// Labels: method, route, status_code
	HTTPRequestDuration *prometheus.HistogramVec

	// SourceFetchCounter counts record source fetches.
	// Labels: source (hf|file|pg|es), status (ok|not_found|error|timeout)
	SourceFetchCounter *prometheus.CounterVec

	// SourceFetchDuration measures record source latency.
	// Labels: source
	SourceFetchDuration *prometheus.HistogramVec

	// CacheLookups counts cache reads.
	// Labels: result (hit|miss)
	CacheLookups *prometheus.CounterVec

	// DecodeDegraded counts context lists that could not be decoded.
	DecodeDegraded prometheus.Counter

	// GraphRequests counts query console calls to the graph backend.
	// Labels: status (ok|api_error|transport_error)
	GraphRequests *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers every collector on reg. Passing a fresh registry
// keeps tests isolated from the global default registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raginsight_http_request_duration_seconds",
				Help:    "Duration of HTTP API requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"method", "route", "status_code"},
		),

		SourceFetchCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raginsight_source_fetches_total",
				Help: "Total number of record source fetches by source and status",
			},
			[]string{"source", "status"},
		),

		SourceFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raginsight_source_fetch_duration_seconds",
				Help:    "Duration of record source fetches in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"source"},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raginsight_cache_lookups_total",
				Help: "Total number of row cache lookups by result",
			},
			[]string{"result"},
		),

		DecodeDegraded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "raginsight_list_decode_degraded_total",
				Help: "Total number of context lists that degraded to empty",
			},
		),

		GraphRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raginsight_graph_requests_total",
				Help: "Total number of graph backend requests by status",
			},
			[]string{"status"},
		),

		gatherer: reg,
	}
}

func (m *Metrics) RecordSourceFetch(source, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SourceFetchCounter.WithLabelValues(source, status).Inc()
	m.SourceFetchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordDecodeDegraded() {
	if m == nil {
		return
	}
	m.DecodeDegraded.Inc()
}

func (m *Metrics) RecordGraphRequest(status string) {
	if m == nil {
		return
	}
	m.GraphRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request latency keyed by the matched route pattern,
// so /api/evaluation/detailed/:retriever stays a single series.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Commit the response so the recorded status is final. Outer
				// middlewares still see err; the handler ignores committed responses.
				c.Error(err)
			}
			m.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return err
		}
	}
}
