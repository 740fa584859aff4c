package feed

import (
	"context"

	appLog "footballyet/internal/log"
	"footballyet/internal/model"
)

// Loader runs one fetch, decode and parse cycle.
type Loader struct {
	fetcher *Fetcher
	parser  *Parser
}

func NewLoader(f *Fetcher, p *Parser) *Loader {
	return &Loader{fetcher: f, parser: p}
}

// Load returns the schedule in feed order. Transport and decode failures are
// returned unchanged so callers can tell them apart.
func (l *Loader) Load(ctx context.Context) ([]model.ScheduleEntry, error) {
	body, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, err := Decode(body)
	if err != nil {
		appLog.Error("feed decode failed", err, "url", appLog.RedactURL(l.fetcher.URL()))
		return nil, err
	}

	entries := l.parser.ParseAll(records)
	appLog.Info("feed parse completed", "url", appLog.RedactURL(l.fetcher.URL()), "entry_count", len(entries))
	return entries, nil
}
