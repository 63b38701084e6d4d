// Package schedule holds the scraped time schedule: one Meeting per class
// meeting pattern, the Table of all meetings and the Registry of known rooms.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrInvalidMeeting is returned by Validate.
var ErrInvalidMeeting = errors.New("invalid meeting")

// Meeting is one recurring class block in one room.
type Meeting struct {
	Days         DaySet
	Start        int // minutes since midnight
	End          int // minutes since midnight, inclusive
	OriginalTime string
	Building     string
	Room         string
}

// Validate checks the record invariants.
func (m Meeting) Validate() error {
	switch {
	case m.Days.IsEmpty():
		return fmt.Errorf("%w: no days", ErrInvalidMeeting)
	case m.Start > m.End:
		return fmt.Errorf("%w: start %d after end %d", ErrInvalidMeeting, m.Start, m.End)
	case m.Building == "" || m.Room == "":
		return fmt.Errorf("%w: missing building or room", ErrInvalidMeeting)
	}
	return nil
}

// Occupies reports whether the meeting holds its room on day at minutes.
// Both interval ends count as occupied.
func (m Meeting) Occupies(day Day, minutes int) bool {
	return m.Days.Has(day) && m.Start <= minutes && minutes <= m.End
}

// Table is the full scraped schedule in scrape order.
type Table []Meeting

// ForBuilding returns the meetings held in building sorted by room, day and
// start time. The receiver is left untouched.
func (t Table) ForBuilding(building string) Table {
	var out Table
	for _, m := range t {
		if m.Building == building {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		if c := compareDays(a.Days, b.Days); c != 0 {
			return c < 0
		}
		return a.Start < b.Start
	})
	return out
}

// compareDays orders day sets by their earliest weekday, then the next one,
// so "M" < "MW" < "MWF" < "T".
func compareDays(a, b DaySet) int {
	return slices.Compare(a.Days(), b.Days())
}

// Buildings returns the distinct building codes in the table, sorted.
func (t Table) Buildings() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range t {
		if _, ok := seen[m.Building]; ok {
			continue
		}
		seen[m.Building] = struct{}{}
		out = append(out, m.Building)
	}
	sort.Strings(out)
	return out
}
