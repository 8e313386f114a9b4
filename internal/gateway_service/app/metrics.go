package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookEventsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "webhook_events_total",
			Help:      "Total webhook events processed, by kind.",
		},
		[]string{"kind"}, // "message", "message_dropped", "status", "status_unmatched"
	)

	dispatchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gateway",
			Name:      "dispatches_total",
			Help:      "Total outbound send attempts, by outcome.",
		},
		[]string{"outcome"}, // "success", "validation_error", "upstream_error"
	)

	providerRequestDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gateway",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of HTTP requests to the WhatsApp Cloud API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
