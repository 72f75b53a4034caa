package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bank_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Transfer metrics
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_transfers_total",
			Help: "Total number of transfer attempts by outcome",
		},
		[]string{"outcome"}, // committed, or the lower-cased error kind
	)

	TransferDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bank_transfer_duration_seconds",
			Help:    "Time from request validation to commit or abort",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// Ledger cache metrics
	TransferCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_transfer_cache_lookups_total",
			Help: "Ledger listing cache lookups",
		},
		[]string{"result"}, // hit, miss, error
	)

	// Broker metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bank_events_published_total",
			Help: "Transfer notifications handed to the broker",
		},
		[]string{"broker", "outcome"},
	)
)
