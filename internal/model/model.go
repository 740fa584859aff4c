package model

import (
	"strings"
	"time"
)

// DefaultTeam is the home program's display name.
const DefaultTeam = "Baylor University"

const (
	dateLayout = "Monday, Jan 02, 2006"
	timeLayout = "03:04 PM"
	tba        = "TBA"
)

// StartTime is either a resolved instant or the original feed text when the
// timestamp could not be parsed. Callers must check Resolved before using
// Time; the zero value is an unresolved empty string.
type StartTime struct {
	t        time.Time
	raw      string
	resolved bool
}

// Resolved wraps a real instant.
func Resolved(t time.Time) StartTime {
	return StartTime{t: t, resolved: true}
}

// Unresolved keeps the original text for display.
func Unresolved(raw string) StartTime {
	return StartTime{raw: raw}
}

// Instant returns the resolved time and true, or the zero time and false.
func (s StartTime) Instant() (time.Time, bool) {
	return s.t, s.resolved
}

func (s StartTime) IsResolved() bool { return s.resolved }

// Raw returns the original text for unresolved values.
func (s StartTime) Raw() string { return s.raw }

// String renders the instant as RFC3339, or the original text.
func (s StartTime) String() string {
	if s.resolved {
		return s.t.Format(time.RFC3339)
	}
	return s.raw
}

// ScheduleEntry is one game from the calendar feed. Entries are built by the
// feed parser and never mutated afterwards.
type ScheduleEntry struct {
	StartTime StartTime

	Opponent string
	Team     string

	// Summary is the feed's description blob, kept verbatim.
	Summary string

	TeamLogo     string
	OpponentLogo string

	// StreamingLinks maps a label ("Streaming Video") to an http(s) URL.
	StreamingLinks map[string]string
	CalendarLink   string
	Location       string

	// HomeLocation is the location prefix that marks a home game.
	HomeLocation string
}

// IsHome reports whether the location starts with the home location. An
// empty home location matches every entry.
func (e ScheduleEntry) IsHome() bool {
	return strings.HasPrefix(e.Location, e.HomeLocation)
}

// Title renders "Team vs. Opponent" for home games and "Team at Opponent"
// otherwise.
func (e ScheduleEntry) Title() string {
	splitter := "at"
	if e.IsHome() {
		splitter = "vs."
	}
	return e.Team + " " + splitter + " " + e.Opponent
}

func (e ScheduleEntry) Host() string {
	if e.IsHome() {
		return e.Team
	}
	return e.Opponent
}

func (e ScheduleEntry) HostLogo() string {
	if e.IsHome() {
		return e.TeamLogo
	}
	return e.OpponentLogo
}

func (e ScheduleEntry) Guest() string {
	if e.IsHome() {
		return e.Opponent
	}
	return e.Team
}

func (e ScheduleEntry) GuestLogo() string {
	if e.IsHome() {
		return e.OpponentLogo
	}
	return e.TeamLogo
}

// LocalDate formats the start date ("Saturday, Sep 04, 2021"), or returns the
// raw text for an unresolved start time.
func (e ScheduleEntry) LocalDate() string {
	t, ok := e.StartTime.Instant()
	if !ok {
		return e.StartTime.Raw()
	}
	return t.Format(dateLayout)
}

// LocalTime formats the kick-off time ("06:00 PM"). Midnight means the feed
// carried no time of day and renders as "TBA".
func (e ScheduleEntry) LocalTime() string {
	t, ok := e.StartTime.Instant()
	if !ok {
		return e.StartTime.Raw()
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return tba
	}
	return t.Format(timeLayout)
}
