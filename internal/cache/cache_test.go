package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"footballyet/internal/metrics"
	"footballyet/internal/model"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) load(context.Context) ([]model.ScheduleEntry, error) {
	n := l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return []model.ScheduleEntry{{Opponent: "Load", Location: string(rune('0' + n))}}, nil
}

func TestBucket(t *testing.T) {
	tests := []struct {
		unix int64
		want int64
	}{
		{0, 0},
		{1799, 0},
		{1800, 0}, // half rounds to even
		{3600, 1},
		{5399, 1},
		{5400, 2},
	}
	for _, tt := range tests {
		if got := Bucket(time.Unix(tt.unix, 0), time.Hour); got != tt.want {
			t.Errorf("Bucket(%d) = %d, want %d", tt.unix, got, tt.want)
		}
	}
	if got := Bucket(time.Unix(7200, 0), 0); got != 2 {
		t.Errorf("zero window should default to an hour, got %d", got)
	}
}

func TestGet_SameBucketReturnsSameSchedule(t *testing.T) {
	l := &countingLoader{}
	c := New(l.load)

	first, err := c.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := c.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if l.calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", l.calls.Load())
	}
	if &first[0] != &second[0] {
		t.Error("same bucket returned a different slice")
	}
}

func TestGet_NewBucketLoadsOnce(t *testing.T) {
	l := &countingLoader{}
	c := New(l.load)
	ctx := context.Background()

	if _, err := c.Get(ctx, 1); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(ctx, 2); err != nil {
		t.Fatal(err)
	}

	if l.calls.Load() != 2 {
		t.Errorf("loader calls = %d, want 2", l.calls.Load())
	}
	if got[0].Location != "2" {
		t.Errorf("got stale schedule %q", got[0].Location)
	}
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	boom := errors.New("boom")
	l := &countingLoader{err: boom}
	c := New(l.load)
	ctx := context.Background()

	if _, err := c.Get(ctx, 7); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	l.err = nil
	got, err := c.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get after recovery: %v", err)
	}
	if len(got) != 1 || l.calls.Load() != 2 {
		t.Errorf("got %d entries after %d calls", len(got), l.calls.Load())
	}
}

func TestCurrent_UsesInjectedClock(t *testing.T) {
	l := &countingLoader{}
	now := time.Unix(36000, 0)
	c := New(l.load, WithClock(func() time.Time { return now }), WithWindow(time.Hour))
	ctx := context.Background()

	if c.CurrentBucket() != 10 {
		t.Fatalf("CurrentBucket() = %d, want 10", c.CurrentBucket())
	}
	if _, err := c.Current(ctx); err != nil {
		t.Fatal(err)
	}

	now = now.Add(20 * time.Minute)
	if _, err := c.Current(ctx); err != nil {
		t.Fatal(err)
	}
	if l.calls.Load() != 1 {
		t.Errorf("loader calls within one bucket = %d, want 1", l.calls.Load())
	}

	now = now.Add(time.Hour)
	if _, err := c.Current(ctx); err != nil {
		t.Fatal(err)
	}
	if l.calls.Load() != 2 {
		t.Errorf("loader calls after rollover = %d, want 2", l.calls.Load())
	}
}

func TestInvalidate(t *testing.T) {
	l := &countingLoader{}
	c := New(l.load)
	ctx := context.Background()

	_, _ = c.Get(ctx, 3)
	c.Invalidate()
	_, _ = c.Get(ctx, 3)
	if l.calls.Load() != 2 {
		t.Errorf("loader calls = %d, want 2", l.calls.Load())
	}
}

func TestGet_ConcurrentCallersShareOneLoad(t *testing.T) {
	l := &countingLoader{}
	c := New(l.load)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(context.Background(), 99); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if l.calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", l.calls.Load())
	}
}

func TestGet_NoLoader(t *testing.T) {
	if _, err := New(nil).Get(context.Background(), 1); err == nil {
		t.Fatal("expected error without loader")
	}
}

func TestGet_RecordsHitsAndMisses(t *testing.T) {
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss"))

	l := &countingLoader{}
	c := New(l.load)
	_, _ = c.Get(context.Background(), 5)
	_, _ = c.Get(context.Background(), 5)

	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")); got != misses+1 {
		t.Errorf("misses = %v, want %v", got, misses+1)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
}
