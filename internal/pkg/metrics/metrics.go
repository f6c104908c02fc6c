// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Pricing operations partitioned by operation and outcome kind
	pricingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_operations_total",
			Help: "Optimization and elasticity requests by outcome",
		},
		[]string{"operation", "outcome"},
	)

	pricingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_operation_duration_seconds",
			Help:    "Time spent loading history and fitting the demand model",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"operation"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_cache_lookups_total",
			Help: "Result cache lookups by result (hit, miss, error)",
		},
		[]string{"operation", "result"},
	)

	ingestedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_ingested_records_total",
			Help: "History records written by ingest",
		},
	)
)

// Outcome used for successful operations.
const OutcomeOK = "ok"

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// ObservePricing records one optimization or elasticity request.
func ObservePricing(operation, outcome string, elapsed time.Duration) {
	pricingOperations.WithLabelValues(operation, outcome).Inc()
	pricingDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCache records one result cache lookup.
func ObserveCache(operation, result string) {
	cacheLookups.WithLabelValues(operation, result).Inc()
}

// AddIngested counts written history records.
func AddIngested(n int) {
	ingestedRecords.Add(float64(n))
}

// Gin returns a middleware that records basic Prometheus metrics.
// Labels use the matched route template to keep cardinality low.
func Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
