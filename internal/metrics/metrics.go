// Package metrics holds the Prometheus instruments for the feed pipeline and
// exposes them at GET /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FeedFetches counts calendar feed requests by result (ok, not_modified, error).
var FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "footballyet_feed_fetches_total",
	Help: "Calendar feed requests by result.",
}, []string{"result"})

// FeedFetchDuration tracks calendar feed latency for requests that got a response.
var FeedFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "footballyet_feed_fetch_duration_seconds",
	Help:    "Calendar feed request latency in seconds.",
	Buckets: prometheus.DefBuckets,
})

// CacheLookups counts schedule cache lookups by outcome (hit, miss).
var CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "footballyet_cache_lookups_total",
	Help: "Schedule cache lookups by outcome.",
}, []string{"outcome"})

// ScheduleEntries is the number of entries in the most recently loaded schedule.
var ScheduleEntries = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "footballyet_schedule_entries",
	Help: "Entries in the most recently loaded schedule.",
})

// RefreshFailures counts failed background refreshes.
var RefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "footballyet_refresh_failures_total",
	Help: "Background schedule refreshes that failed.",
})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
