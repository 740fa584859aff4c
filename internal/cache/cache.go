// Package cache memoizes the parsed schedule per TTL bucket.
package cache

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	appLog "footballyet/internal/log"
	"footballyet/internal/metrics"
	"footballyet/internal/model"
)

// DefaultWindow is the TTL bucket width.
const DefaultWindow = time.Hour

// LoadFunc fetches and parses the full schedule.
type LoadFunc func(ctx context.Context) ([]model.ScheduleEntry, error)

// Bucket returns unix seconds / window rounded half to even, the cache key
// for t.
func Bucket(t time.Time, window time.Duration) int64 {
	if window <= 0 {
		window = DefaultWindow
	}
	secs := float64(t.UnixNano()) / float64(time.Second)
	return int64(math.RoundToEven(secs / window.Seconds()))
}

// CalendarCache holds the schedule loaded for the most recent bucket.
// Lookups are serialized, so concurrent callers with the same bucket share a
// single load.
type CalendarCache struct {
	load   LoadFunc
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	valid   bool
	bucket  int64
	entries []model.ScheduleEntry
}

// Option configures a CalendarCache.
type Option func(*CalendarCache)

// WithClock injects the clock used by Current.
func WithClock(now func() time.Time) Option {
	return func(c *CalendarCache) { c.now = now }
}

// WithWindow sets the TTL bucket width.
func WithWindow(d time.Duration) Option {
	return func(c *CalendarCache) {
		if d > 0 {
			c.window = d
		}
	}
}

func New(load LoadFunc, opts ...Option) *CalendarCache {
	c := &CalendarCache{
		load:   load,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the schedule for bucket. A bucket equal to the cached one
// returns the cached slice without loading; any other bucket loads exactly
// once and replaces the cached value. Load errors are returned unchanged and
// are not cached.
func (c *CalendarCache) Get(ctx context.Context, bucket int64) ([]model.ScheduleEntry, error) {
	if c.load == nil {
		return nil, errors.New("cache: no loader configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.bucket == bucket {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return c.entries, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	entries, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	c.valid = true
	c.bucket = bucket
	c.entries = entries
	metrics.ScheduleEntries.Set(float64(len(entries)))
	appLog.Debug("cache: schedule stored", "bucket", bucket, "entry_count", len(entries))
	return entries, nil
}

// Current returns the schedule for the clock's current bucket.
func (c *CalendarCache) Current(ctx context.Context) ([]model.ScheduleEntry, error) {
	return c.Get(ctx, c.CurrentBucket())
}

// CurrentBucket returns the bucket for the injected clock's current time.
func (c *CalendarCache) CurrentBucket() int64 {
	return Bucket(c.now(), c.window)
}

// Invalidate drops the cached schedule so the next Get loads again.
func (c *CalendarCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.entries = nil
	c.mu.Unlock()
}
