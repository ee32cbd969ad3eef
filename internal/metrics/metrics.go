// Package metrics defines the Prometheus instruments for the capture flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CaptureClicks counts map clicks that opened the capture form.
	CaptureClicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "landval_capture_clicks_total",
		Help: "Map clicks that opened the capture form.",
	})

	// RecordsCreated counts value records appended to the store.
	RecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "landval_records_created_total",
		Help: "Value records appended to the store.",
	})

	// CaptureRejected counts submits that did not fire because required
	// fields or the pending click were missing.
	CaptureRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "landval_capture_rejected_total",
		Help: "Submits ignored because required fields or pending state were missing.",
	})

	// AppendDuration tracks store append latency.
	AppendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "landval_store_append_seconds",
		Help:    "Store append latency in seconds.",
		Buckets: prometheus.DefBuckets,
	})
)
