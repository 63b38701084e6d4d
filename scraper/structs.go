package scraper

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is returned when a page answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// sectionFragment is the expected shape of one section block on a department
// page: the text following the section link, the building link and the text
// following it.
type sectionFragment struct {
	SLN      string // section line number, the text of the section link
	Line     string // " A  5  MWF  1130-1220  "
	Building string // text of the building map link
	RoomLine string // " 125      Smith,John ..."
}

// MarkupError reports a section block whose markup does not have the
// expected shape.
type MarkupError struct {
	Page    string
	Section string
	Reason  string
	Err     error
}

func (e *MarkupError) Error() string {
	msg := fmt.Sprintf("unexpected markup on %s (section %s): %s", e.Page, e.Section, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MarkupError) Unwrap() error { return e.Err }

// Stats counts what a department page yielded.
type Stats struct {
	Sections    int
	Meetings    int
	NoRoom      int // sections without an assigned building and room
	Unscheduled int // sections whose day is not a day code ("to be arranged")
}

func (s *Stats) add(o Stats) {
	s.Sections += o.Sections
	s.Meetings += o.Meetings
	s.NoRoom += o.NoRoom
	s.Unscheduled += o.Unscheduled
}
