// Package cli is the interactive room finder: it answers schedule and free
// room questions against a loaded schedule table and classroom registry.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"timeschd-roomfinder/availability"
	"timeschd-roomfinder/calendar"
	"timeschd-roomfinder/clock"
	"timeschd-roomfinder/schedule"
)

// Publisher receives exported calendar files.
type Publisher interface {
	Upload(ctx context.Context, remotePath, localFile, message string) error
}

type CLI struct {
	in       *bufio.Scanner
	lines    chan inputLine
	out      io.Writer
	table    schedule.Table
	registry schedule.Registry

	now         func() time.Time
	loc         *time.Location
	logger      *zap.Logger
	calendarDir string
	publisher   Publisher
	remoteDir   string
}

type Option func(*CLI)

// WithClock sets the source of the current time used by search and export.
func WithClock(now func() time.Time) Option {
	return func(c *CLI) { c.now = now }
}

// WithLocation sets the zone exported calendars are written in.
func WithLocation(loc *time.Location) Option {
	return func(c *CLI) { c.loc = loc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *CLI) { c.logger = logger }
}

// WithCalendarDir sets where export writes <building>.ics files.
func WithCalendarDir(dir string) Option {
	return func(c *CLI) { c.calendarDir = dir }
}

// WithPublisher uploads every export to remoteDir through p.
func WithPublisher(p Publisher, remoteDir string) Option {
	return func(c *CLI) {
		c.publisher = p
		c.remoteDir = remoteDir
	}
}

func New(in io.Reader, out io.Writer, table schedule.Table, registry schedule.Registry, opts ...Option) *CLI {
	c := &CLI{
		in:          bufio.NewScanner(in),
		out:         out,
		table:       table,
		registry:    registry,
		now:         time.Now,
		loc:         time.Local,
		logger:      zap.NewNop(),
		calendarDir: "calendars",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const actionPrompt = "Input an action:" +
	"\n ('schedule') to find the classroom schedule for a building" +
	"\n ('search') to search for available classrooms for a given time" +
	"\n ('export') to write a building's schedule as a calendar file" +
	"\n ('list') to list all the building abbreviations" +
	"\n ('exit') to exit: "

// inputLine is one line of input, or the error that ended the input.
type inputLine struct {
	text string
	err  error
}

// Run prompts for actions until "exit", end of input or ctx is done. A
// prompt waiting for input returns as soon as ctx is done.
func (c *CLI) Run(ctx context.Context) error {
	scanCtx, stop := context.WithCancel(ctx)
	defer stop()
	c.lines = make(chan inputLine)
	go c.scan(scanCtx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := c.prompt(ctx, actionPrompt)
		if err != nil {
			return ignoreEOF(err)
		}

		switch action {
		case "schedule":
			err = c.scheduleAction(ctx)
		case "search":
			err = c.searchAction(ctx)
		case "export":
			err = c.exportAction(ctx)
		case "list":
			c.printBuildings()
		case "exit":
			return nil
		default:
			c.println("Usage: choose one of schedule, search, export, list or exit.")
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			c.logger.Error("action failed", zap.String("action", action), zap.Error(err))
			c.println("Error: " + err.Error())
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// scan feeds input lines to prompt until the input ends or ctx is done.
func (c *CLI) scan(ctx context.Context) {
	defer close(c.lines)
	for c.in.Scan() {
		select {
		case c.lines <- inputLine{text: c.in.Text()}:
		case <-ctx.Done():
			return
		}
	}
	if err := c.in.Err(); err != nil {
		select {
		case c.lines <- inputLine{err: err}:
		case <-ctx.Done():
		}
	}
}

// prompt writes text and waits for one trimmed line. End of input is io.EOF.
func (c *CLI) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(c.out, text)
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(c.out)
		return "", err
	}
	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			fmt.Fprintln(c.out)
			return "", io.EOF
		}
		if line.err != nil {
			return "", fmt.Errorf("error reading input: %w", line.err)
		}
		return strings.TrimSpace(line.text), nil
	}
}

func (c *CLI) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *CLI) printBuildings() {
	c.println(strings.Join(c.table.Buildings(), " "))
}

// promptBuilding asks until a known building is given. With allowAll an
// empty answer is accepted and returned as "".
func (c *CLI) promptBuilding(ctx context.Context, text string, allowAll bool) (string, error) {
	for {
		building, err := c.prompt(ctx, text)
		if err != nil {
			return "", err
		}
		switch {
		case building == "list":
			c.printBuildings()
		case building == "" && allowAll:
			return "", nil
		case building != "" && c.registry.Has(building):
			return building, nil
		default:
			c.println("Usage: Invalid building name specified.")
		}
	}
}

func (c *CLI) scheduleAction(ctx context.Context) error {
	building, err := c.promptBuilding(ctx, "Specify a building's 3-letter abbreviation to use:"+
		"\n ('list') to list all the building abbreviations ", false)
	if err != nil {
		return err
	}

	rows := c.table.ForBuilding(building)
	if len(rows) == 0 {
		c.println("No meetings scheduled in " + building + ".")
		return nil
	}
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROOM\tDAYS\tSTART\tEND\tTIME")
	for _, m := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Room, m.Days, clock.Format(m.Start), clock.Format(m.End), m.OriginalTime)
	}
	return w.Flush()
}

func (c *CLI) searchAction(ctx context.Context) error {
	building, err := c.promptBuilding(ctx, "Specify a building's 3-letter abbreviation to search in:"+
		"\n ('list') to list all the building abbreviations"+
		"\n (enter) to search all buildings ", true)
	if err != nil {
		return err
	}

	day, minutes, err := c.promptMoment(ctx)
	if err != nil {
		return err
	}
	when := day.String() + " " + clock.Format(minutes)

	if building != "" {
		rooms := availability.FindAvailable(c.table, building, day, minutes, c.registry[building])
		if len(rooms) == 0 {
			c.println("No rooms available in " + building + " on " + when + ".")
			return nil
		}
		c.println("Available rooms in " + building + " on " + when + ": " + strings.Join(rooms.Sorted(), " "))
		return nil
	}

	free := availability.FindAvailableAny(c.table, day, minutes, c.registry)
	if len(free) == 0 {
		c.println("No rooms available on " + when + ".")
		return nil
	}
	c.println("Available rooms on " + when + ":")
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, b := range schedule.Registry(free).Buildings() {
		fmt.Fprintf(w, "%s\t%s\n", b, strings.Join(free[b].Sorted(), " "))
	}
	return w.Flush()
}

// promptMoment returns the day and minute to search, either the current
// time or one typed by the user.
func (c *CLI) promptMoment(ctx context.Context) (schedule.Day, int, error) {
	answer, err := c.prompt(ctx, "Use the current time to check for availability? ('y' for yes, anything else for no) ")
	if err != nil {
		return 0, 0, err
	}
	if answer == "y" {
		if day, minutes, ok := Now(c.now()); ok {
			return day, minutes, nil
		}
		c.println("There are no classes on Sunday. Specify a day and time instead.")
	}

	day, err := c.promptDay(ctx)
	if err != nil {
		return 0, 0, err
	}
	minutes, err := c.promptTime(ctx)
	if err != nil {
		return 0, 0, err
	}
	return day, minutes, nil
}

// Now maps t onto a schedule day and minutes since midnight. It reports
// false on Sunday.
func Now(t time.Time) (schedule.Day, int, bool) {
	day, ok := schedule.DayOf(t.Weekday())
	return day, t.Hour()*60 + t.Minute(), ok
}

var typedDays = []string{"M", "T", "W", "Th", "F", "S"}

func (c *CLI) promptDay(ctx context.Context) (schedule.Day, error) {
	text := fmt.Sprintf("Specify the day to check available %v ", typedDays)
	for {
		answer, err := c.prompt(ctx, text)
		if err != nil {
			return 0, err
		}
		for _, code := range typedDays {
			if answer == code {
				return schedule.ParseDay(answer)
			}
		}
		c.println("Input not one of the options. Please specify one of the given days.")
	}
}

func (c *CLI) promptTime(ctx context.Context) (int, error) {
	var digits string
	for {
		answer, err := c.prompt(ctx, "Specify the time to check available for in the format of HMM." +
			"\n Examples: 130, 1230, 1155 ")
		if err != nil {
			return 0, err
		}
		if clock.Valid(answer) {
			digits = answer
			break
		}
		c.println("Usage: the time must be an hour from 1 to 12 followed by two minute digits.")
	}

	for {
		answer, err := c.prompt(ctx, "AM or PM? ('a' or 'p'; (enter) to read 8 to 11 as AM and 1 to 7 as PM) ")
		if err != nil {
			return 0, err
		}
		var m clock.Meridiem
		switch strings.ToLower(answer) {
		case "":
			m = clock.Auto
		case "a", "am":
			m = clock.AM
		case "p", "pm":
			m = clock.PM
		default:
			c.println("Usage: answer 'a', 'p' or press enter.")
			continue
		}
		return clock.Parse(digits, m)
	}
}

func (c *CLI) exportAction(ctx context.Context) error {
	building, err := c.promptBuilding(ctx, "Specify a building's 3-letter abbreviation to export:"+
		"\n ('list') to list all the building abbreviations ", false)
	if err != nil {
		return err
	}

	file := filepath.Join(c.calendarDir, building+".ics")
	previous, err := calendar.Read(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("previous calendar unreadable", zap.String("file", file), zap.Error(err))
	}

	cal := calendar.Build(c.table, building, c.now(), c.loc)
	if err := calendar.Write(file, cal); err != nil {
		return err
	}
	added, removed := calendar.Changes(previous, cal)
	c.logger.Info("calendar exported",
		zap.String("building", building),
		zap.String("file", file),
		zap.Int("events", len(cal.Events())),
		zap.Int("added", added),
		zap.Int("removed", removed),
	)
	c.println(fmt.Sprintf("Wrote %s: %d events (%d added, %d removed).", file, len(cal.Events()), added, removed))

	if c.publisher == nil {
		return nil
	}
	remote := path.Join(c.remoteDir, building+".ics")
	if err := c.publisher.Upload(ctx, remote, file, "Update "+building+".ics"); err != nil {
		return fmt.Errorf("error publishing %s: %w", remote, err)
	}
	c.println("Published " + remote + ".")
	return nil
}
