package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDay is returned for text that is not a weekday code.
var ErrInvalidDay = errors.New("invalid day code")

// Day is a teaching weekday as printed in the time schedule.
type Day uint8

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayCodes = [...]string{"M", "T", "W", "Th", "F", "Sat"}

// DayCodes lists the canonical codes in weekday order.
func DayCodes() []string {
	return dayCodes[:]
}

func (d Day) String() string {
	if int(d) < len(dayCodes) {
		return dayCodes[d]
	}
	return fmt.Sprintf("Day(%d)", uint8(d))
}

// ParseDay reads a single day code. Saturday is accepted as "S", "Sa",
// "Sat" or "Sat.".
func ParseDay(code string) (Day, error) {
	switch strings.TrimSpace(code) {
	case "M":
		return Monday, nil
	case "T":
		return Tuesday, nil
	case "W":
		return Wednesday, nil
	case "Th":
		return Thursday, nil
	case "F":
		return Friday, nil
	case "S", "Sa", "Sat", "Sat.":
		return Saturday, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, code)
}

// DayOf maps a calendar weekday onto a schedule day. Sunday has no code.
func DayOf(w time.Weekday) (Day, bool) {
	if w == time.Sunday {
		return 0, false
	}
	return Day(w - time.Monday), true
}

// Weekday is the inverse of DayOf.
func (d Day) Weekday() time.Weekday {
	return time.Monday + time.Weekday(d)
}

// DaySet is the set of days a meeting pattern repeats on.
type DaySet uint8

// NewDaySet builds a set from individual days.
func NewDaySet(days ...Day) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func (s DaySet) Add(d Day) DaySet { return s | 1<<d }
func (s DaySet) Has(d Day) bool { return s&(1<<d) != 0 }
func (s DaySet) IsEmpty() bool { return s == 0 }

// Days returns the members in weekday order.
func (s DaySet) Days() []Day {
	var days []Day
	for d := Monday; d <= Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s DaySet) String() string {
	var b strings.Builder
	for _, d := range s.Days() {
		b.WriteString(d.String())
	}
	return b.String()
}

// ParseDaySet reads concatenated day codes such as "MWF", "TTh" or "Sat.".
// "Th" is always read as Thursday, never as Tuesday plus a stray "h".
func ParseDaySet(text string) (DaySet, error) {
	rest := strings.TrimSpace(text)
	if rest == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDay)
	}
	var s DaySet
	for rest != "" {
		var n int
		switch {
		case strings.HasPrefix(rest, "Th"):
			s, n = s.Add(Thursday), 2
		case strings.HasPrefix(rest, "Sat."):
			s, n = s.Add(Saturday), 4
		case strings.HasPrefix(rest, "Sat"):
			s, n = s.Add(Saturday), 3
		case rest[0] == 'M':
			s, n = s.Add(Monday), 1
		case rest[0] == 'T':
			s, n = s.Add(Tuesday), 1
		case rest[0] == 'W':
			s, n = s.Add(Wednesday), 1
		case rest[0] == 'F':
			s, n = s.Add(Friday), 1
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidDay, text)
		}
		rest = rest[n:]
	}
	return s, nil
}
