package schedule

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// tableHeader is the column layout of the persisted schedule file.
var tableHeader = []string{"index", "day", "start", "end", "original_time", "building", "room"}

// SaveTable writes t to path as CSV. The file starts with a UTF-8 BOM so
// spreadsheet tools pick the right encoding.
func SaveTable(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating schedule file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if _, err := f.WriteString("\xEF\xBB\xBF"); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for i, m := range t {
		record := []string{
			strconv.Itoa(i),
			m.Days.String(),
			strconv.Itoa(m.Start),
			strconv.Itoa(m.End),
			m.OriginalTime,
			m.Building,
			m.Room,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadTable reads a schedule file written by SaveTable. Files carrying a
// UTF-16 BOM are decoded as well. The index column is optional.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening schedule file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty schedule file", path)
		}
		return nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var t Table
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		m, err := decodeMeeting(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		t = append(t, m)
	}
	return t, nil
}

type columns struct {
	day, start, end, originalTime, building, room int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("missing column %q", name)
		}
		return i, nil
	}
	var c columns
	var err error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"day", &c.day},
		{"start", &c.start},
		{"end", &c.end},
		{"original_time", &c.originalTime},
		{"building", &c.building},
		{"room", &c.room},
	} {
		if *f.dst, err = lookup(f.name); err != nil {
			return columns{}, err
		}
	}
	return c, nil
}

func decodeMeeting(record []string, c columns) (Meeting, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	days, err := ParseDaySet(field(c.day))
	if err != nil {
		return Meeting{}, err
	}
	start, err := strconv.Atoi(field(c.start))
	if err != nil {
		return Meeting{}, fmt.Errorf("start: %w", err)
	}
	end, err := strconv.Atoi(field(c.end))
	if err != nil {
		return Meeting{}, fmt.Errorf("end: %w", err)
	}
	m := Meeting{
		Days:         days,
		Start:        start,
		End:          end,
		OriginalTime: field(c.originalTime),
		Building:     field(c.building),
		Room:         field(c.room),
	}
	return m, m.Validate()
}

// SaveRegistry writes reg as a JSON object of building to room list.
func SaveRegistry(path string, reg Registry) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating registry file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	lists := make(map[string][]string, len(reg))
	for building, rooms := range reg {
		lists[building] = rooms.Sorted()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(lists)
}

// LoadRegistry reads a registry file and turns each room list back into a set.
func LoadRegistry(path string) (Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening registry file: %w", err)
	}
	defer f.Close()

	var lists map[string][]string
	if err := json.NewDecoder(f).Decode(&lists); err != nil {
		return nil, fmt.Errorf("error decoding registry file %s: %w", path, err)
	}
	reg := make(Registry, len(lists))
	for building, rooms := range lists {
		reg[building] = NewRoomSet(rooms...)
	}
	return reg, nil
}
