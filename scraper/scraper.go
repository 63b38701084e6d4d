// Package scraper downloads a term of the time schedule and turns every
// department page into schedule rows.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"timeschd-roomfinder/config"
	"timeschd-roomfinder/schedule"
)

// Scraper fetches pages one at a time; the first failure ends a run.
type Scraper struct {
	client *http.Client
	cfg    *config.Config
	logger *zap.Logger
}

type Option func(*Scraper)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{Timeout: cfg.RequestTimeout.Duration},
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetch GETs pageURL and parses it, honouring the charset the server declares.
func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request for %s: %w", pageURL, err)
	}
	req.Header.Add("User-Agent", s.cfg.UserAgent)
	req.Header.Add("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, pageURL, resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML of %s: %w", pageURL, err)
	}
	return doc, nil
}

// Departments lists the absolute department page URLs of the configured term.
func (s *Scraper) Departments(ctx context.Context) ([]string, error) {
	indexURL := s.cfg.TermURL()
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid term URL %q: %w", indexURL, err)
	}

	doc, err := s.fetch(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	var links []string
	for _, href := range extractDepartments(doc) {
		ref, err := url.Parse(href)
		if err != nil {
			return nil, fmt.Errorf("invalid department link %q: %w", href, err)
		}
		links = append(links, base.ResolveReference(ref).String())
	}
	return links, nil
}

// Department scrapes a single department page.
func (s *Scraper) Department(ctx context.Context, link string) (schedule.Table, Stats, error) {
	doc, err := s.fetch(ctx, link)
	if err != nil {
		return nil, Stats{}, err
	}
	return extractMeetings(doc, link)
}

// Scrape walks every department of the term and returns all meetings found.
func (s *Scraper) Scrape(ctx context.Context) (schedule.Table, error) {
	s.logger.Info("downloading time schedule", zap.String("url", s.cfg.TermURL()))

	links, err := s.Departments(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("found departments", zap.Int("count", len(links)))

	var (
		table schedule.Table
		total Stats
	)
	for _, link := range links {
		s.logger.Info("now loading", zap.String("url", link))
		meetings, stats, err := s.Department(ctx, link)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("department loaded",
			zap.String("url", link),
			zap.Int("sections", stats.Sections),
			zap.Int("meetings", stats.Meetings),
			zap.Int("no_room", stats.NoRoom),
			zap.Int("unscheduled", stats.Unscheduled),
		)
		table = append(table, meetings...)
		total.add(stats)
	}

	s.logger.Info("time schedule downloaded",
		zap.Int("departments", len(links)),
		zap.Int("sections", total.Sections),
		zap.Int("meetings", total.Meetings),
		zap.Int("no_room", total.NoRoom),
		zap.Int("unscheduled", total.Unscheduled),
	)
	return table, nil
}

// Run scrapes the term, derives the classroom registry from the rooms seen
// and writes both files named in the config.
func (s *Scraper) Run(ctx context.Context) error {
	table, err := s.Scrape(ctx)
	if err != nil {
		return err
	}
	reg := schedule.BuildRegistry(table)

	s.logger.Info("exporting schedule", zap.String("file", s.cfg.ScheduleFile), zap.Int("rows", len(table)))
	if err := schedule.SaveTable(s.cfg.ScheduleFile, table); err != nil {
		return fmt.Errorf("error exporting schedule: %w", err)
	}

	s.logger.Info("exporting classrooms", zap.String("file", s.cfg.RegistryFile), zap.Int("buildings", len(reg)))
	if err := schedule.SaveRegistry(s.cfg.RegistryFile, reg); err != nil {
		return fmt.Errorf("error exporting classrooms: %w", err)
	}
	return nil
}
