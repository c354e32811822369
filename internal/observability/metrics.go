package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	studentMutationsTotal  *prometheus.CounterVec
	studentEventsPublished *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		studentMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "student_mutations_total",
			Help: "Committed student writes by action.",
		}, []string{"action"})

		studentEventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "student_events_published_total",
			Help: "Student lifecycle events handed to the broker.",
		}, []string{"action"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, studentMutationsTotal, studentEventsPublished)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// StudentMutations exposes the committed write counter.
func StudentMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return studentMutationsTotal
}

// StudentEventsPublished exposes the published event counter.
func StudentEventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return studentEventsPublished
}
