// Package schedule answers date questions about a parsed schedule: which
// games are still ahead, whether the season is under way, and when the next
// one is expected to start.
package schedule

import (
	"time"

	"github.com/teambition/rrule-go"

	appLog "footballyet/internal/log"
	"footballyet/internal/model"
)

const (
	TitleNextGame     = "Next Game"
	TitleNextSeason   = "Next Season Start (est)"
	seasonKickoffHour = 11
)

// Target is what the countdown counts down to.
type Target struct {
	Title     string
	At        time.Time
	Estimated bool
}

// Upcoming returns the entries whose start date is on or after today's date.
// Entries with an unresolved start time are left out.
func Upcoming(entries []model.ScheduleEntry, today time.Time) []model.ScheduleEntry {
	day := dateOf(today)
	out := make([]model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		t, ok := e.StartTime.Instant()
		if !ok {
			continue
		}
		if !dateOf(t).Before(day) {
			out = append(out, e)
		}
	}
	return out
}

// IsInSeason reports whether today's date lies between the dates of the
// first and last resolved entries, inclusive. The schedule is assumed to be
// in chronological order; an empty schedule is never in season.
func IsInSeason(entries []model.ScheduleEntry, today time.Time) bool {
	first, last, ok := resolvedBounds(entries)
	if !ok {
		return false
	}
	day := dateOf(today)
	return !day.Before(dateOf(first)) && !day.After(dateOf(last))
}

// EstimateNextSeasonStart returns 11:00 in loc on the first Saturday of
// September of today's year, or of the following year when that Saturday is
// not strictly after today.
func EstimateNextSeasonStart(today time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	day := dateOf(today)
	sat := FirstSaturdayOfSeptember(day.Year())
	if !sat.After(day) {
		sat = FirstSaturdayOfSeptember(day.Year() + 1)
	}
	return time.Date(sat.Year(), sat.Month(), sat.Day(), seasonKickoffHour, 0, 0, 0, loc)
}

// NextKickoff picks the countdown target: the first upcoming game, or the
// estimated season start when no games are left. Today is taken from now in
// loc.
func NextKickoff(entries []model.ScheduleEntry, now time.Time, loc *time.Location) Target {
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc)
	if up := Upcoming(entries, today); len(up) > 0 {
		at, _ := up[0].StartTime.Instant()
		return Target{Title: TitleNextGame, At: at}
	}
	return Target{
		Title:     TitleNextSeason,
		At:        EstimateNextSeasonStart(today, loc),
		Estimated: true,
	}
}

// FirstSaturdayOfSeptember returns midnight UTC on the first Saturday of
// September of year.
func FirstSaturdayOfSeptember(year int) time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.YEARLY,
		Dtstart:   time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Bymonth:   []int{int(time.September)},
		Byweekday: []rrule.Weekday{rrule.SA.Nth(1)},
		Count:     1,
	})
	if err != nil {
		appLog.Error("schedule: rrule construction failed; scanning days", err, "year", year)
		return firstSaturdayScan(year)
	}
	occ := r.All()
	if len(occ) == 0 {
		return firstSaturdayScan(year)
	}
	return dateOf(occ[0])
}

// firstSaturdayScan walks forward from September 1 until it hits a Saturday.
func firstSaturdayScan(year int) time.Time {
	day := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Saturday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func resolvedBounds(entries []model.ScheduleEntry) (first, last time.Time, ok bool) {
	for _, e := range entries {
		t, resolved := e.StartTime.Instant()
		if !resolved {
			continue
		}
		if !ok {
			first = t
			ok = true
		}
		last = t
	}
	return first, last, ok
}

// dateOf truncates t to its calendar date in its own location, returned as
// midnight UTC so dates from different zones compare by Y/M/D.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
