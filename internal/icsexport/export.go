// Package icsexport renders the schedule as an iCalendar document so it can
// be subscribed to from a calendar app.
package icsexport

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"footballyet/internal/model"
)

const (
	productID = "-//footballyet//schedule//EN"

	// defaultGameLength matches the end dates the feed publishes.
	defaultGameLength = 3 * time.Hour
)

var summaryNewlines = strings.NewReplacer(`\n`, "\n")

// Render builds a VCALENDAR with one VEVENT per resolved entry. Entries whose
// start time carries no time of day become all-day events; unresolved
// entries are skipped. stamp is written as DTSTAMP.
func Render(entries []model.ScheduleEntry, calName string, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if calName != "" {
		cal.SetXWRCalName(calName)
	}

	for _, e := range entries {
		start, ok := e.StartTime.Instant()
		if !ok {
			continue
		}

		ev := cal.AddEvent(eventUID(e, start))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetSummary(e.Title())
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.CalendarLink != "" {
			ev.SetURL(e.CalendarLink)
		}
		if e.Summary != "" {
			ev.SetDescription(summaryNewlines.Replace(e.Summary))
		}

		if isDateOnly(start) {
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(defaultGameLength))
		}
	}

	return cal.Serialize()
}

// eventUID prefers the feed's calendar link, which is stable per game.
func eventUID(e model.ScheduleEntry, start time.Time) string {
	if e.CalendarLink != "" {
		return e.CalendarLink
	}
	return start.UTC().Format("20060102T150405Z") + "-" + strings.ReplaceAll(strings.ToLower(e.Opponent), " ", "-") + "@footballyet"
}

func isDateOnly(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
