// Package clock converts the compact clock strings used by the time schedule
// ("830", "1230", "130", "920P") into minutes since midnight.
package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when a clock string cannot be read.
var ErrMalformedTime = errors.New("malformed time")

// MinutesPerDay bounds every value produced by Parse with an explicit meridiem.
const MinutesPerDay = 24 * 60

// Meridiem selects how the hour of a clock string is read.
type Meridiem int

const (
	// Auto applies the schedule heuristic: 3-digit times starting with 1-7
	// and times suffixed with "P" are afternoon times.
	Auto Meridiem = iota
	AM
	PM
)

func (m Meridiem) String() string {
	switch m {
	case AM:
		return "AM"
	case PM:
		return "PM"
	default:
		return "auto"
	}
}

var validPattern = regexp.MustCompile(`^([1-9]|1[0-2])[0-5][0-9]$`)

// Valid reports whether text is a user-typed clock time: hour 1-12 followed
// by two minute digits.
func Valid(text string) bool {
	return validPattern.MatchString(text)
}

// ToMinutes reads a scraped clock string using the Auto heuristic.
func ToMinutes(text string) (int, error) {
	return Parse(text, Auto)
}

// Parse reads text as a clock time and returns minutes since midnight.
func Parse(text string, m Meridiem) (int, error) {
	digits := strings.TrimSuffix(text, "P")
	marked := len(digits) != len(text)

	hour, minute, err := split(digits)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrMalformedTime, text, err)
	}

	switch m {
	case AM:
		if marked {
			return 0, fmt.Errorf("%w %q: PM marker on a morning time", ErrMalformedTime, text)
		}
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w %q: hour out of range", ErrMalformedTime, text)
		}
		return (hour%12)*60 + minute, nil
	case PM:
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w %q: hour out of range", ErrMalformedTime, text)
		}
		return afternoon(hour, minute), nil
	}

	if marked || (len(digits) == 3 && digits[0] >= '1' && digits[0] <= '7') {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w %q: hour out of range", ErrMalformedTime, text)
		}
		return afternoon(hour, minute), nil
	}
	if hour > 23 {
		return 0, fmt.Errorf("%w %q: hour out of range", ErrMalformedTime, text)
	}
	return hour*60 + minute, nil
}

// afternoon shifts hour into the second half of the day; 12 stays noon.
func afternoon(hour, minute int) int {
	return (hour%12+12)*60 + minute
}

func split(digits string) (hour, minute int, err error) {
	if len(digits) != 3 && len(digits) != 4 {
		return 0, 0, fmt.Errorf("want 3 or 4 digits, got %d", len(digits))
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || strings.ContainsAny(digits, "+-") {
		return 0, 0, errors.New("not a number")
	}
	hour, minute = n/100, n%100
	if minute > 59 {
		return 0, 0, errors.New("minutes out of range")
	}
	return hour, minute, nil
}

// SplitRange parses a scraped range such as "1030-1120" or "630-920P".
func SplitRange(text string) (start, end int, err error) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w %q: want start-end", ErrMalformedTime, text)
	}
	if start, err = ToMinutes(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = ToMinutes(parts[1]); err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, fmt.Errorf("%w %q: range ends before it starts", ErrMalformedTime, text)
	}
	return start, end, nil
}

// Format renders minutes since midnight as "h:mm AM".
func Format(minutes int) string {
	hour, minute := minutes/60, minutes%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}
