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
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mathnodes_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Formula Metrics
	FormulaEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_formula_evaluations_total",
			Help: "Total number of formula evaluations",
		},
		[]string{"source", "status"},
	)

	FormulaEvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mathnodes_formula_evaluation_duration_seconds",
			Help:    "Formula evaluation duration in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"source"},
	)

	FormulaCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_formula_cache_total",
			Help: "Formula result cache lookups",
		},
		[]string{"result"},
	)

	// Node Execution Metrics
	NodeExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_node_executions_total",
			Help: "Total number of node executions",
		},
		[]string{"node_type", "status"},
	)

	NodeExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mathnodes_node_execution_duration_seconds",
			Help:    "Node execution duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"node_type"},
	)

	// Queue Metrics
	QueueTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_queue_tasks_total",
			Help: "Total number of tasks enqueued",
		},
		[]string{"task_type"},
	)

	QueueTasksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mathnodes_queue_tasks_processed_total",
			Help: "Total number of tasks processed",
		},
		[]string{"task_type", "status"},
	)

	// Rate Limiting Metrics
	RateLimitWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mathnodes_rate_limit_wait_seconds",
			Help:    "Time tasks spent waiting on the worker rate limiter",
			Buckets: []float64{.001, .01, .05, .1, .5, 1, 5},
		},
	)
)

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware records HTTP metrics. Paths are labelled with the chi route
// pattern so ids do not explode label cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordFormulaEvaluation records one evaluation. status is "success",
// "cached" or the formula error kind.
func RecordFormulaEvaluation(source, status string, durationSeconds float64) {
	FormulaEvaluationsTotal.WithLabelValues(source, status).Inc()
	if durationSeconds > 0 {
		FormulaEvaluationDuration.WithLabelValues(source).Observe(durationSeconds)
	}
}

// RecordCacheLookup records a result cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	FormulaCacheTotal.WithLabelValues(result).Inc()
}

// RecordNodeExecution records node execution metrics
func RecordNodeExecution(nodeType, status string, durationSeconds float64) {
	NodeExecutionsTotal.WithLabelValues(nodeType, status).Inc()
	if durationSeconds > 0 {
		NodeExecutionDuration.WithLabelValues(nodeType).Observe(durationSeconds)
	}
}

// RecordTaskEnqueued records an enqueued task
func RecordTaskEnqueued(taskType string) {
	QueueTasksTotal.WithLabelValues(taskType).Inc()
}

// RecordTaskProcessed records a processed task
func RecordTaskProcessed(taskType, status string) {
	QueueTasksProcessed.WithLabelValues(taskType, status).Inc()
}

// RecordRateLimitWait records time spent waiting for the rate limiter
func RecordRateLimitWait(d time.Duration) {
	RateLimitWaitSeconds.Observe(d.Seconds())
}
