package icsexport

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"footballyet/internal/model"
)

func TestRender(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatal(err)
	}
	entries := []model.ScheduleEntry{
		{
			StartTime:    model.Resolved(time.Date(2021, 9, 4, 18, 0, 0, 0, loc)),
			Team:         model.DefaultTeam,
			Opponent:     "Texas State",
			Location:     "San Marcos, TX",
			HomeLocation: "Waco",
			CalendarLink: "https://baylorbears.com/calendar.aspx?id=26078",
			Summary:      `W 29-20\nTV: ESPN+`,
		},
		{
			StartTime: model.Unresolved("TBD"),
			Opponent:  "Nobody",
		},
		{
			StartTime:    model.Resolved(time.Date(2021, 11, 27, 0, 0, 0, 0, time.UTC)),
			Team:         model.DefaultTeam,
			Opponent:     "Texas Tech",
			Location:     "Waco, Texas",
			HomeLocation: "Waco",
		},
	}

	out := Render(entries, "Baylor Football", time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC))

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar: %v\n%s", err, out)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (unresolved skipped)", len(events))
	}

	first := events[0]
	if p := first.GetProperty(ical.ComponentPropertyUniqueId); p == nil || p.Value != "https://baylorbears.com/calendar.aspx?id=26078" {
		t.Errorf("UID = %v", p)
	}
	if p := first.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Baylor University at Texas State" {
		t.Errorf("SUMMARY = %v", p)
	}
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt: %v", err)
	}
	if !start.Equal(time.Date(2021, 9, 4, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("DTSTART = %v", start)
	}

	second := events[1]
	if p := second.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Baylor University vs. Texas Tech" {
		t.Errorf("SUMMARY = %v", p)
	}
	if p := second.GetProperty(ical.ComponentPropertyDtStart); p == nil || strings.Contains(p.Value, "T") {
		t.Errorf("expected all-day DTSTART, got %v", p)
	}
	if p := second.GetProperty(ical.ComponentPropertyUniqueId); p == nil || !strings.HasSuffix(p.Value, "@footballyet") {
		t.Errorf("fallback UID = %v", p)
	}
}
