package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingPagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "listing_pages_fetched_total",
		Help:      "Listing pages fetched during discovery",
	}, []string{"site"})

	DetailPagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "detail_pages_fetched_total",
		Help:      "Detail pages fetched successfully",
	}, []string{"site"})

	FetchRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "fetch_retries_total",
		Help:      "Failed fetch attempts that were retried",
	}, []string{"site"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "fetch_failures_total",
		Help:      "Fetches that exhausted all attempts",
	}, []string{"site"})

	OracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "oracle_calls_total",
		Help:      "Extraction oracle calls",
	}, []string{"site"})

	OracleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "oracle_failures_total",
		Help:      "Extraction oracle calls that failed",
	}, []string{"site"})

	NormalizeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "normalize_failures_total",
		Help:      "Sub-records dropped during normalization",
	}, []string{"site"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crawler",
		Name:      "events_published_total",
		Help:      "Publish attempts by outcome (ok, rejected, error)",
	}, []string{"site", "outcome"})
)
