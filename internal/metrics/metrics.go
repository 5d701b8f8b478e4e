// Package metrics defines Prometheus metrics for projection runs and the API.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

const namespace = "ffcalc"

// Projection counter vectors
var (
	ProjectionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projection_runs_total",
		Help:      "Total number of projection operations by operation and status",
	}, []string{"operation", "status"})

	FreedomOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "freedom_outcomes_total",
		Help:      "Baseline projections by whether the actual track reached the corpus",
	}, []string{"achieved"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	})
)

// Projection histograms
var (
	ProjectionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "projection_duration_seconds",
		Help:      "Time spent computing projections by operation",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	}, []string{"operation"})

	FreedomAge = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "freedom_age_years",
		Help:      "Financial freedom age of achieved baseline projections",
		Buckets:   prometheus.LinearBuckets(20, 5, 14),
	})

	MonteCarloSuccessRate = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "monte_carlo_success_rate",
		Help:      "Share of Monte Carlo paths that reached the corpus",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// Gauges
var (
	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Projection sessions currently held in memory",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ProjectionRunsTotal)
		registry.MustRegister(FreedomOutcomesTotal)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(RateLimitedTotal)

		registry.MustRegister(ProjectionDuration)
		registry.MustRegister(FreedomAge)
		registry.MustRegister(MonteCarloSuccessRate)

		registry.MustRegister(ActiveSessions)

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordProjection records one projection operation.
// operation is one of "baseline", "shock", "clear_shock", "monte_carlo";
// status is "success", "invalid" or "error".
func RecordProjection(operation, status string, durationSeconds float64) {
	ProjectionRunsTotal.WithLabelValues(operation, status).Inc()
	ProjectionDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordFreedomAge records the outcome of a baseline; a nil age means not achieved.
func RecordFreedomAge(age *int) {
	if age == nil {
		FreedomOutcomesTotal.WithLabelValues("false").Inc()
		return
	}
	FreedomOutcomesTotal.WithLabelValues("true").Inc()
	FreedomAge.Observe(float64(*age))
}

// RecordMonteCarloSuccessRate records the success rate of a Monte Carlo run.
func RecordMonteCarloSuccessRate(rate float64) {
	MonteCarloSuccessRate.Observe(rate)
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route, code string) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// RecordRateLimited records a request turned away by the limiter.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// UpdateActiveSessions sets the live session count.
func UpdateActiveSessions(count int) {
	ActiveSessions.Set(float64(count))
}
