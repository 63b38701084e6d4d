package scraper

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"timeschd-roomfinder/clock"
	"timeschd-roomfinder/schedule"
)

var (
	departmentHref = regexp.MustCompile(`^[a-z]&*[a-z]+\.html`)
	errNoRoom      = errors.New("no room assigned")
	errUnscheduled = errors.New("no meeting days")
)

// extractDepartments returns the department page links of a term index in
// page order, without duplicates.
func extractDepartments(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !departmentHref.MatchString(href) {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}

// extractMeetings reads one meeting from every section block on a
// department page. page names the page in errors.
func extractMeetings(doc *goquery.Document, page string) (schedule.Table, Stats, error) {
	var (
		table schedule.Table
		stats Stats
		err   error
	)
	doc.Find(`a[href*="timeschd/uwnetid/sln"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		stats.Sections++
		frag, ferr := decodeFragment(s, page)
		switch {
		case errors.Is(ferr, errNoRoom):
			stats.NoRoom++
			return true
		case errors.Is(ferr, errUnscheduled):
			stats.Unscheduled++
			return true
		case ferr != nil:
			err = ferr
			return false
		}

		m, ok, merr := frag.meeting(page)
		if merr != nil {
			err = merr
			return false
		}
		if !ok {
			stats.Unscheduled++
			return true
		}
		table = append(table, m)
		stats.Meetings++
		return true
	})
	if err != nil {
		return nil, stats, err
	}
	return table, stats, nil
}

// decodeFragment checks the nodes following a section link against
// sectionFragment. Whatever follows the meeting text of a section with no
// day codes is ignored. A block that ends before the building link has no
// room.
func decodeFragment(link *goquery.Selection, page string) (sectionFragment, error) {
	frag := sectionFragment{SLN: strings.TrimSpace(link.Text())}
	fail := func(reason string) (sectionFragment, error) {
		return sectionFragment{}, &MarkupError{Page: page, Section: frag.SLN, Reason: reason}
	}

	line := link.Nodes[0].NextSibling
	if line == nil {
		return sectionFragment{}, errNoRoom
	}
	if line.Type != html.TextNode {
		return fail("expected meeting text after section link")
	}
	frag.Line = line.Data
	if fields := strings.Fields(frag.Line); len(fields) >= 3 {
		if _, err := schedule.ParseDaySet(fields[2]); err != nil {
			return sectionFragment{}, errUnscheduled
		}
	}

	building := line.NextSibling
	if building == nil {
		return sectionFragment{}, errNoRoom
	}
	if building.Type != html.ElementNode || building.DataAtom != atom.A {
		return fail("expected building link after meeting text, found <" + building.Data + ">")
	}
	frag.Building = strings.TrimSpace(goquery.NewDocumentFromNode(building).Text())

	room := building.NextSibling
	if room == nil || room.Type != html.TextNode {
		return fail("expected room text after building link")
	}
	frag.RoomLine = room.Data
	return frag, nil
}

// meeting converts the fragment into a schedule row. ok is false when the
// day column holds something other than day codes.
func (f sectionFragment) meeting(page string) (m schedule.Meeting, ok bool, err error) {
	fail := func(reason string, cause error) (schedule.Meeting, bool, error) {
		return schedule.Meeting{}, false, &MarkupError{Page: page, Section: f.SLN, Reason: reason, Err: cause}
	}

	fields := strings.Fields(f.Line)
	if len(fields) < 3 {
		return fail("meeting text has fewer than 3 columns: "+strings.TrimSpace(f.Line), nil)
	}
	days, derr := schedule.ParseDaySet(fields[2])
	if derr != nil {
		return schedule.Meeting{}, false, nil
	}
	if len(fields) < 4 {
		return fail("meeting text has no time column", nil)
	}
	start, end, terr := clock.SplitRange(fields[3])
	if terr != nil {
		return fail("bad time range", terr)
	}

	roomFields := strings.Fields(f.RoomLine)
	if f.Building == "" || len(roomFields) == 0 {
		return fail("empty building or room", nil)
	}

	m = schedule.Meeting{
		Days:         days,
		Start:        start,
		End:          end,
		OriginalTime: fields[3],
		Building:     f.Building,
		Room:         roomFields[0],
	}
	return m, true, nil
}
