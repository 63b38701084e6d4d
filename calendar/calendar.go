// Package calendar exports a building's weekly schedule as an iCalendar file
// with one recurring event per meeting pattern.
package calendar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"timeschd-roomfinder/clock"
	"timeschd-roomfinder/schedule"
)

var byDay = map[schedule.Day]string{
	schedule.Monday:    "MO",
	schedule.Tuesday:   "TU",
	schedule.Wednesday: "WE",
	schedule.Thursday:  "TH",
	schedule.Friday:    "FR",
	schedule.Saturday:  "SA",
}

// Build returns the calendar of building. Each meeting starts on its first
// day in the week containing weekOf and repeats weekly on all its days.
// Identical meetings (cross-listed sections) produce a single event.
func Build(t schedule.Table, building string, weekOf time.Time, loc *time.Location) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timeschd-roomfinder//room schedule//EN")
	cal.SetXWRCalName(building + " room schedule")

	monday := weekStart(weekOf, loc)
	seen := make(map[string]struct{})
	for _, m := range t.ForBuilding(building) {
		days := m.Days.Days()
		if len(days) == 0 {
			continue
		}
		date := monday.AddDate(0, 0, int(days[0]))
		start := time.Date(date.Year(), date.Month(), date.Day(), 0, m.Start, 0, 0, loc)
		end := time.Date(date.Year(), date.Month(), date.Day(), 0, m.End, 0, 0, loc)

		summary := fmt.Sprintf("%s %s", m.Building, m.Room)
		rule := weeklyRule(days)
		eventID := generateEventID(summary, rule, start.Format(time.RFC3339), end.Format(time.RFC3339))
		if _, dup := seen[eventID]; dup {
			continue
		}
		seen[eventID] = struct{}{}

		event := cal.AddEvent(eventID)
		event.SetDtStampTime(weekOf)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(summary)
		event.SetLocation(summary)
		event.SetDescription(fmt.Sprintf("%s %s-%s (%s)", m.Days, clock.Format(m.Start), clock.Format(m.End), m.OriginalTime))
		event.SetProperty(ics.ComponentPropertyRrule, rule)
	}
	return cal
}

// weekStart returns midnight of the Monday on or before t.
func weekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}

func weeklyRule(days []schedule.Day) string {
	codes := make([]string, 0, len(days))
	for _, d := range days {
		codes = append(codes, byDay[d])
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
}

func generateEventID(parts ...string) string {
	hash := md5.New()
	hash.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash.Sum(nil))
}

// Write serializes cal to path, creating parent directories.
func Write(path string, cal *ics.Calendar) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating calendar directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("error writing calendar: %w", err)
	}
	return nil
}

// Read parses an ICS file.
func Read(path string) (*ics.Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cal, err := ics.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing ICS data: %w", err)
	}
	return cal, nil
}

// Changes compares two exports of the same building by event ID.
func Changes(previous, next *ics.Calendar) (added, removed int) {
	before := eventIDs(previous)
	after := eventIDs(next)
	for id := range after {
		if _, ok := before[id]; !ok {
			added++
		}
	}
	for id := range before {
		if _, ok := after[id]; !ok {
			removed++
		}
	}
	return added, removed
}

func eventIDs(cal *ics.Calendar) map[string]struct{} {
	ids := make(map[string]struct{})
	if cal == nil {
		return ids
	}
	for _, event := range cal.Events() {
		if event == nil {
			continue
		}
		ids[event.Id()] = struct{}{}
	}
	return ids
}
