package calendar

import (
	"path/filepath"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"timeschd-roomfinder/schedule"
)

var pacific = time.FixedZone("PDT", -7*60*60)

func testTable() schedule.Table {
	return schedule.Table{
		{Days: schedule.NewDaySet(schedule.Monday, schedule.Wednesday, schedule.Friday), Start: 690, End: 740, OriginalTime: "1130-1220", Building: "EEB", Room: "125"},
		{Days: schedule.NewDaySet(schedule.Tuesday, schedule.Thursday), Start: 510, End: 560, OriginalTime: "830-920", Building: "EEB", Room: "042"},
		// cross-listed copy of the first meeting
		{Days: schedule.NewDaySet(schedule.Monday, schedule.Wednesday, schedule.Friday), Start: 690, End: 740, OriginalTime: "1130-1220", Building: "EEB", Room: "125"},
		{Days: schedule.NewDaySet(schedule.Monday), Start: 600, End: 650, OriginalTime: "1000-1050", Building: "MGH", Room: "030"},
	}
}

func TestBuildAndRead(t *testing.T) {
	weekOf := time.Date(2018, time.October, 3, 15, 0, 0, 0, pacific) // a Wednesday
	cal := Build(testTable(), "EEB", weekOf, pacific)

	path := filepath.Join(t.TempDir(), "calendars", "EEB.ics")
	if err := Write(path, cal); err != nil {
		t.Fatal(err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	events := got.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	// ForBuilding order: room 042 first.
	first := events[0]
	if v := first.GetProperty(ics.ComponentPropertySummary).Value; v != "EEB 042" {
		t.Errorf("summary = %q", v)
	}
	wantStart := time.Date(2018, time.October, 2, 8, 30, 0, 0, pacific).UTC().Format("20060102T150405Z")
	if v := first.GetProperty(ics.ComponentPropertyDtStart).Value; v != wantStart {
		t.Errorf("DTSTART = %q, want %q", v, wantStart)
	}
	wantEnd := time.Date(2018, time.October, 2, 9, 20, 0, 0, pacific).UTC().Format("20060102T150405Z")
	if v := first.GetProperty(ics.ComponentPropertyDtEnd).Value; v != wantEnd {
		t.Errorf("DTEND = %q, want %q", v, wantEnd)
	}
	if v := first.GetProperty(ics.ComponentPropertyRrule).Value; v != "FREQ=WEEKLY;BYDAY=TU,TH" {
		t.Errorf("RRULE = %q", v)
	}

	second := events[1]
	wantStart = time.Date(2018, time.October, 1, 11, 30, 0, 0, pacific).UTC().Format("20060102T150405Z")
	if v := second.GetProperty(ics.ComponentPropertyDtStart).Value; v != wantStart {
		t.Errorf("DTSTART = %q, want %q", v, wantStart)
	}
	if v := second.GetProperty(ics.ComponentPropertyRrule).Value; v != "FREQ=WEEKLY;BYDAY=MO,WE,FR" {
		t.Errorf("RRULE = %q", v)
	}
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2018, time.October, 1, 0, 0, 0, 0, pacific)
	for offset := 0; offset < 7; offset++ {
		day := monday.AddDate(0, 0, offset).Add(13 * time.Hour)
		if got := weekStart(day, pacific); !got.Equal(monday) {
			t.Errorf("weekStart(%v) = %v", day, got)
		}
	}
}

func TestChanges(t *testing.T) {
	weekOf := time.Date(2018, time.October, 3, 0, 0, 0, 0, pacific)
	before := Build(testTable(), "EEB", weekOf, pacific)

	if added, removed := Changes(nil, before); added != 2 || removed != 0 {
		t.Errorf("first export: added %d removed %d", added, removed)
	}

	table := testTable()
	table[1].Start = 540
	after := Build(table, "EEB", weekOf, pacific)
	if added, removed := Changes(before, after); added != 1 || removed != 1 {
		t.Errorf("moved meeting: added %d removed %d", added, removed)
	}
	if added, removed := Changes(before, before); added != 0 || removed != 0 {
		t.Errorf("same export: added %d removed %d", added, removed)
	}
}
