package worker

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	rowsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glossa_rows_processed_total",
			Help: "Count of rows processed by the consumer pool",
		},
		[]string{"status", "kind"},
	)

	apiCallFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glossa_api_call_failures_total",
			Help: "Count of failed Natural Language API calls",
		},
		[]string{"kind"},
	)

	apiCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glossa_api_call_duration_seconds",
			Help:    "Duration of Natural Language API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

var metricsOnce sync.Once

// RegisterMetrics registers the worker metrics with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(rowsProcessedTotal)
		prometheus.MustRegister(apiCallFailuresTotal)
		prometheus.MustRegister(apiCallDuration)
	})
}
