// Package countdown splits a time delta into the week/day/hour/minute/second
// units shown on the "next game" countdown.
package countdown

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	daysPerWeek      = 7
)

// Breakdown is a duration decomposed into calendar-style units.
type Breakdown struct {
	Seconds int64
	Minutes int64
	Hours   int64
	Days    int64
	Weeks   int64
}

// Value is a single labelled countdown unit, e.g. {"Hours", 2}.
type Value struct {
	Label string
	Count int64
}

func (v Value) String() string {
	return fmt.Sprintf("%s: %d", v.Label, v.Count)
}

// Phrase renders the value as "1 hour" / "2 hours".
func (v Value) Phrase() string {
	unit := singular[v.Label]
	if unit == "" {
		unit = v.Label
	}
	if v.Count == 1 {
		return fmt.Sprintf("%d %s", v.Count, unit)
	}
	return fmt.Sprintf("%d %ss", v.Count, unit)
}

var singular = map[string]string{
	"Weeks":   "week",
	"Days":    "day",
	"Hours":   "hour",
	"Minutes": "minute",
	"Seconds": "second",
}

// FromDuration decomposes d. Whole days are split off first (floored, so a
// negative duration keeps a non-negative sub-day remainder); days above one
// week carry into Weeks. The sub-day remainder is split into hours and then
// minutes, each only when the remainder is strictly greater than one unit.
// Sub-second precision is dropped.
func FromDuration(d time.Duration) Breakdown {
	total := int64(d / time.Second)
	if d%time.Second < 0 {
		total--
	}

	days := floorDiv(total, secondsPerDay)
	seconds := total - days*secondsPerDay

	var weeks int64
	if days > daysPerWeek {
		weeks = days / daysPerWeek
		days -= weeks * daysPerWeek
	}

	var hours, minutes int64
	if seconds > secondsPerHour {
		hours = seconds / secondsPerHour
		seconds -= hours * secondsPerHour
	}
	if seconds > secondsPerMinute {
		minutes = seconds / secondsPerMinute
		seconds -= minutes * secondsPerMinute
	}

	return Breakdown{
		Seconds: seconds,
		Minutes: minutes,
		Hours:   hours,
		Days:    days,
		Weeks:   weeks,
	}
}

// Until returns the breakdown of the time remaining from now to target.
func Until(target, now time.Time) Breakdown {
	return FromDuration(target.Sub(now))
}

// duration folds the breakdown back into a duration.
func (b Breakdown) duration() time.Duration {
	secs := b.Weeks*daysPerWeek*secondsPerDay +
		b.Days*secondsPerDay +
		b.Hours*secondsPerHour +
		b.Minutes*secondsPerMinute +
		b.Seconds
	return time.Duration(secs) * time.Second
}

// Values returns all five units, largest first.
func (b Breakdown) Values() []Value {
	return []Value{
		{Label: "Weeks", Count: b.Weeks},
		{Label: "Days", Count: b.Days},
		{Label: "Hours", Count: b.Hours},
		{Label: "Minutes", Count: b.Minutes},
		{Label: "Seconds", Count: b.Seconds},
	}
}

// CountdownValues returns the units starting at the largest non-zero one.
// When every unit is zero only the Seconds entry is returned.
func (b Breakdown) CountdownValues() []Value {
	values := b.Values()
	for i, v := range values {
		if v.Count != 0 {
			return values[i:]
		}
	}
	return values[len(values)-1:]
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
