package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	// EventsPublished counts publish attempts by topic and outcome.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_published_total",
			Help: "Audit events handed to Kafka, by outcome",
		},
		[]string{"topic", "outcome"},
	)

	publishLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audit_event_publish_seconds",
			Help:    "Time spent writing one audit event to Kafka",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"topic"},
	)

	// EventsReceived counts events read by audit tail.
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_received_total",
			Help: "Audit events fetched from Kafka",
		},
		[]string{"topic"},
	)
)
