package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the icon server.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	rendersTotal  *prometheus.CounterVec
	renderedIcons prometheus.Histogram
	droppedTokens prometheus.Counter

	registry *prometheus.Registry

	// metricsPath is the scrape route, labelled "metrics".
	metricsPath string
}

// NewMetrics creates a metrics instance backed by a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillicons_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skillicons_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		rendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skillicons_renders_total",
				Help: "Composite render requests by outcome and theme",
			},
			[]string{"outcome", "theme"},
		),

		renderedIcons: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skillicons_rendered_icons",
				Help:    "Icons placed per composite document",
				Buckets: []float64{1, 2, 5, 10, 15, 25, 50, 100, 250},
			},
		),

		droppedTokens: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "skillicons_dropped_tokens_total",
				Help: "Requested tokens that did not resolve to a catalog entry",
			},
		),

		registry:    registry,
		metricsPath: "/metrics",
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.rendersTotal,
		m.renderedIcons,
		m.droppedTokens,
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRender records the outcome of one /icons request.
func (m *Metrics) RecordRender(outcome, theme string, requested, resolved int) {
	m.rendersTotal.WithLabelValues(outcome, theme).Inc()
	if resolved > 0 {
		m.renderedIcons.Observe(float64(resolved))
	}
	if dropped := requested - resolved; dropped > 0 {
		m.droppedTokens.Add(float64(dropped))
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// MetricsMiddleware creates HTTP middleware that records request metrics
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		m.RecordHTTPRequest(r.Method, endpointName(r.URL.Path, m.metricsPath), strconv.Itoa(wrapped.statusCode), time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// endpointName keeps the endpoint label bounded. metricsPath is the
// configured scrape route.
func endpointName(path, metricsPath string) string {
	if path == metricsPath {
		return "metrics"
	}
	switch path {
	case "/icons":
		return "icons"
	case "/api/icons":
		return "api_icons"
	case "/api/svgs":
		return "api_svgs"
	case "/healthz":
		return "health"
	default:
		return "unknown"
	}
}
