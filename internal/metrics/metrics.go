// Package metrics declares the Prometheus collectors this service exposes:
// per-criterion/outcome query counts, query latency, an (unfed) engine
// pop-count histogram, and HTTP request count and duration, using the usual promauto.NewCounterVec/NewHistogramVec
// declaration style under a Namespace/Subsystem/Name convention.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridrail",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridrail",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// QueriesTotal counts k_shortest queries by criterion and terminal
	// status (OK/NO_ROUTE/BUDGET_EXHAUSTED/INVALID_QUERY/UNKNOWN_CITY).
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridrail",
		Subsystem: "engine",
		Name:      "queries_total",
		Help:      "Total k_shortest queries processed",
	}, []string{"criterion", "status"})

	// QueryPops is a histogram for frontier pops consumed per query, the
	// engine's own measure of search effort independent of wall-clock time.
	// It is registered but nothing observes into it: engine.Result does not
	// report a pop count, so the histogram stays empty.
	QueryPops = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridrail",
		Subsystem: "engine",
		Name:      "query_pops",
		Help:      "Frontier states popped per k_shortest query",
		Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
	})

	// QueryDuration is the wall-clock latency of a single k_shortest call.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridrail",
		Subsystem: "engine",
		Name:      "query_duration_seconds",
		Help:      "k_shortest query latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"criterion"})
)

// Middleware records HTTP request count and latency, keyed by the route
// pattern chi matched (so templated paths don't explode metric cardinality).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Handler returns the standard Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
