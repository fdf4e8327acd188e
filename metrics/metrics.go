package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline counters. Per-record failures reduce batch yield silently at the
// API surface, so they are only visible here and in the logs.
var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_pages_fetched_total",
		Help: "Index pages requested from the attestation gateway.",
	})
	EnvelopesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_envelopes_fetched_total",
		Help: "Attestation envelopes returned across all pages.",
	})
	DecodeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_decode_failures_total",
		Help: "Envelopes whose payload failed to decode against its schema.",
	})
	MappingFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_mapping_failures_total",
		Help: "Decoded envelopes missing a required field for their variant.",
	})
	DuplicatesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "receipts_duplicates_dropped_total",
		Help: "Receipts discarded as republications of the same activity.",
	})
	PageLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "receipts_page_fetch_seconds",
		Help:    "Latency of a single index page request.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

func init() {
	prometheus.MustRegister(
		PagesFetched,
		EnvelopesFetched,
		DecodeFailures,
		MappingFailures,
		DuplicatesDropped,
		PageLatency,
	)
}
