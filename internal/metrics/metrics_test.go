package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(FeedFetches.WithLabelValues("ok"))
	FeedFetches.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(FeedFetches.WithLabelValues("ok")); got != before+1 {
		t.Errorf("feed fetches = %v, want %v", got, before+1)
	}

	ScheduleEntries.Set(12)
	if got := testutil.ToFloat64(ScheduleEntries); got != 12 {
		t.Errorf("schedule entries = %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	CacheLookups.WithLabelValues("hit").Inc()
	RefreshFailures.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{
		"footballyet_feed_fetches_total",
		"footballyet_cache_lookups_total",
		"footballyet_schedule_entries",
		"footballyet_refresh_failures_total",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metric %s missing from scrape output", name)
		}
	}
}
