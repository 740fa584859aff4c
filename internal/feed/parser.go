package feed

import (
	"regexp"
	"strings"
	"time"

	appLog "footballyet/internal/log"
	"footballyet/internal/model"
)

var (
	dateOnlyRE = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	linkRE     = regexp.MustCompile(`^https?://\S+`)

	// The feed escapes newlines in descriptions as a literal backslash-n.
	newlineReplacer = strings.NewReplacer(`\n`, "\n", "\r\n", "\n")
)

const (
	dateOnlyLayout = "2006-1-2"
	dateTimeLayout = "2006-01-02T15:04:05-0700"
)

// Parser turns raw feed records into schedule entries.
type Parser struct {
	team         string
	homeLocation string
	loc          *time.Location
}

// NewParser builds a Parser. loc is the home timezone that full timestamps
// are converted into; nil means UTC. An empty team uses model.DefaultTeam.
func NewParser(team, homeLocation string, loc *time.Location) *Parser {
	if team == "" {
		team = model.DefaultTeam
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{team: team, homeLocation: homeLocation, loc: loc}
}

// Parse builds a fully populated entry. It never fails: a timestamp that
// cannot be resolved is kept as text and malformed summary lines are skipped.
func (p *Parser) Parse(rec RawRecord) model.ScheduleEntry {
	start := ResolveStartTime(rec.StartDate, p.loc)
	if !start.IsResolved() {
		appLog.Warn("feed: start time left unresolved", "raw", rec.StartDate, "link", rec.Link)
	}

	return model.ScheduleEntry{
		StartTime:      start,
		Opponent:       rec.Opponent,
		Team:           p.team,
		Summary:        rec.Summary,
		TeamLogo:       rec.TeamLogo,
		OpponentLogo:   rec.OpponentLogo,
		StreamingLinks: StreamingLinks(rec.Summary),
		CalendarLink:   rec.Link,
		Location:       rec.Location,
		HomeLocation:   p.homeLocation,
	}
}

// ParseAll parses records, preserving order.
func (p *Parser) ParseAll(recs []RawRecord) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, p.Parse(rec))
	}
	return out
}

// ResolveStartTime interprets a feed timestamp.
//
//   - "YYYY-M-D" is a date without time of day: midnight UTC on that date.
//   - Anything else is read as a UTC date-time with sub-second precision
//     dropped ("2021-09-04T23:00:00.0000000Z") and converted into loc.
//
// Values matching neither form are returned unresolved with the original
// text.
func ResolveStartTime(raw string, loc *time.Location) model.StartTime {
	if loc == nil {
		loc = time.UTC
	}

	if dateOnlyRE.MatchString(raw) {
		d, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			return model.Unresolved(raw)
		}
		return model.Resolved(d)
	}

	s := raw
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "Z")

	t, err := time.Parse(dateTimeLayout, s+"+0000")
	if err != nil {
		return model.Unresolved(raw)
	}
	return model.Resolved(t.In(loc))
}

// StreamingLinks extracts "Label: URL" lines from a summary blob. The last
// whitespace-separated token of a line is the URL and the rest, minus a
// trailing colon, is the label. Lines without a label or whose last token is
// not an http(s) URL are skipped.
func StreamingLinks(summary string) map[string]string {
	links := make(map[string]string)
	for _, line := range strings.Split(newlineReplacer.Replace(summary), "\n") {
		line = strings.TrimSpace(line)
		i := strings.LastIndexAny(line, " \t")
		if i < 0 {
			continue
		}
		label := strings.TrimRight(strings.TrimSpace(line[:i]), ":")
		candidate := line[i+1:]
		if label == "" || !linkRE.MatchString(candidate) {
			continue
		}
		links[label] = candidate
	}
	return links
}
