package httpclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_client_requests_total",
			Help: "Total number of requests sent to the counseling backend",
		},
		[]string{"call", "method", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_client_request_duration_seconds",
			Help:    "Duration of requests sent to the counseling backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call", "method"},
	)
)

func observeRequest(call, method, status string, start time.Time) {
	apiRequestsTotal.WithLabelValues(call, method, status).Inc()
	apiRequestDuration.WithLabelValues(call, method).Observe(time.Since(start).Seconds())
}
