// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation kinds.
const (
	KindQuote      = "quote"
	KindSale       = "sale"
	KindHistorical = "historical"
)

var (
	// CalculationsTotal counts cost calculations by kind.
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printdesk_calculations_total",
			Help: "Cost calculations served, by kind",
		},
		[]string{"kind"},
	)

	// QuotationsSaved counts persisted quotation snapshots.
	QuotationsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printdesk_quotations_saved_total",
			Help: "Quotation snapshots persisted",
		},
	)

	// PrintRecords counts persisted printing history records.
	PrintRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "printdesk_print_records_total",
			Help: "Printing history records persisted",
		},
	)

	// HTTPRequestDuration observes request latency by route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "printdesk_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)
