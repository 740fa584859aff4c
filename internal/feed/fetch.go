package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	appLog "footballyet/internal/log"
	"footballyet/internal/metrics"
)

const defaultFetchTimeout = 15 * time.Second

// FetcherConfig describes the calendar endpoint.
type FetcherConfig struct {
	// URL is the RSS calendar endpoint.
	URL string
	// SportID is sent as the sport_id query parameter.
	SportID int
	// UserAgent identifies this client to the feed host.
	UserAgent string
	// Timeout bounds a single request. Zero uses defaultFetchTimeout.
	Timeout time.Duration
}

// conditional holds HTTP validators from the last 200 response so repeat
// requests can be answered with 304 Not Modified.
type conditional struct {
	ETag         string
	LastModified string
	Body         []byte
}

// Fetcher performs the single GET against the calendar feed.
type Fetcher struct {
	client    *http.Client
	url       string
	userAgent string

	mu   sync.Mutex
	last *conditional
}

// NewFetcher creates a Fetcher. The sport id is merged into any query
// string already present on cfg.URL.
func NewFetcher(cfg FetcherConfig) (*Fetcher, error) {
	if cfg.URL == "" {
		return nil, errors.New("feed URL is empty")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}
	q := u.Query()
	q.Set("sport_id", strconv.Itoa(cfg.SportID))
	u.RawQuery = q.Encode()

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		url:       u.String(),
		userAgent: cfg.UserAgent,
	}, nil
}

// URL returns the full request URL including the sport id.
func (f *Fetcher) URL() string { return f.url }

// Fetch returns the feed body. Any network error, timeout or non-success
// status is returned as a *TransportError; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	redacted := appLog.RedactURL(f.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &TransportError{URL: redacted, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	f.mu.Lock()
	last := f.last
	f.mu.Unlock()

	// Conditional headers from the previous response.
	if last != nil {
		if last.ETag != "" {
			req.Header.Set("If-None-Match", last.ETag)
		}
		if last.LastModified != "" {
			req.Header.Set("If-Modified-Since", last.LastModified)
		}
	}

	appLog.Info("feed fetch start", "url", redacted)
	started := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil, &TransportError{URL: redacted, Err: err}
	}
	defer resp.Body.Close()

	metrics.FeedFetchDuration.Observe(time.Since(started).Seconds())

	switch {
	case resp.StatusCode == http.StatusNotModified && last != nil:
		metrics.FeedFetches.WithLabelValues("not_modified").Inc()
		appLog.Info("feed not modified; reusing last body", "url", redacted)
		return last.Body, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			metrics.FeedFetches.WithLabelValues("error").Inc()
			return nil, &TransportError{URL: redacted, StatusCode: resp.StatusCode, Err: err}
		}

		f.mu.Lock()
		f.last = &conditional{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Body:         body,
		}
		f.mu.Unlock()

		metrics.FeedFetches.WithLabelValues("ok").Inc()
		appLog.Info("feed fetch success", "url", redacted, "status", resp.StatusCode, "bytes", len(body))
		return body, nil

	default:
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return nil, &TransportError{
			URL:        redacted,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}
}
