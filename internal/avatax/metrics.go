package avatax

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taxgate_avatax_requests_total",
		Help: "Outbound AvaTax API calls by operation and outcome.",
	}, []string{"operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taxgate_avatax_request_duration_seconds",
		Help:    "Latency of outbound AvaTax API calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

func observeRequest(operation, outcome string, seconds float64) {
	requestsTotal.WithLabelValues(operation, outcome).Inc()
	requestDuration.WithLabelValues(operation).Observe(seconds)
}
