// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestLatency records the latency of backend API calls by
	// method and response status.
	BackendRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "animhub_backend_request_latency_seconds",
		Help:    "Backend API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	// BackendErrorRate counts backend API transport failures by method.
	BackendErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animhub_backend_error_rate_total",
		Help: "Total number of backend API transport errors by method",
	}, []string{"method"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animhub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// ObserveBackendRequest records the latency of a backend API call.
func ObserveBackendRequest(method, status string, start time.Time) {
	BackendRequestLatency.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

// RecordBackendError increments the backend transport error counter.
func RecordBackendError(method string) {
	BackendErrorRate.WithLabelValues(method).Inc()
}

// RecordRedisError increments the Redis error counter for the operation.
func RecordRedisError(operation string) {
	RedisErrorRate.WithLabelValues(operation).Inc()
}
