// Package observability exposes prometheus metrics for the service.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	pipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coverage_pipeline_runs_total",
			Help: "Coverage pipeline invocations by outcome.",
		},
		[]string{"outcome", "packing"},
	)

	pipelineStageSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coverage_pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"stage"},
	)

	coveragePointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coverage_points_total",
			Help: "Accepted coverage points across all runs.",
		},
	)

	batchesEmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coverage_batches_emitted_total",
			Help: "Output batches emitted across all runs.",
		},
	)

	geocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Place lookups by result.",
		},
		[]string{"result"},
	)

	geocodeCacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_ops_total",
			Help: "Geocode cache operations by op and outcome.",
		},
		[]string{"op", "outcome"},
	)

	runEventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "run_events_published_total",
			Help: "Run lifecycle events published to the broker.",
		},
		[]string{"outcome"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveRun(outcome, packing string) {
	pipelineRunsTotal.WithLabelValues(outcome, packing).Inc()
}

func ObserveStage(stage string, durationSeconds float64) {
	pipelineStageSeconds.WithLabelValues(stage).Observe(durationSeconds)
}

func AddCoveragePoints(n int) {
	if n > 0 {
		coveragePointsTotal.Add(float64(n))
	}
}

func AddBatches(n int) {
	if n > 0 {
		batchesEmittedTotal.Add(float64(n))
	}
}

func ObserveGeocode(result string) {
	geocodeRequestsTotal.WithLabelValues(result).Inc()
}

func ObserveGeocodeCache(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	geocodeCacheOpsTotal.WithLabelValues(op, outcome).Inc()
}

func ObserveRunEvent(outcome string) {
	runEventsPublishedTotal.WithLabelValues(outcome).Inc()
}
