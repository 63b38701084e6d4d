package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultFile is read when no config file is named.
const DefaultFile = "config.json"

// DefaultLogLevel applies when neither the file nor the environment sets one.
const DefaultLogLevel = "info"

// Duration reads "30s"-style strings from JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type Config struct {
	BaseURL        string   `json:"base_url"`
	Term           string   `json:"term"`
	ScheduleFile   string   `json:"schedule_file"`
	RegistryFile   string   `json:"registry_file"`
	CalendarDir    string   `json:"calendar_dir"`
	Timezone       string   `json:"timezone"`
	UserAgent      string   `json:"user_agent"`
	RequestTimeout Duration `json:"request_timeout"`
	LogLevel       string   `json:"log_level"`
	LogDevelopment bool     `json:"log_development"`
	GithubToken    string   `json:"github_token"`
	GithubRepo     string   `json:"github_repo"`
	GithubPath     string   `json:"github_path"`
}

// Default returns the settings used for anything a config file leaves out.
func Default() *Config {
	return &Config{
		BaseURL:        "https://www.washington.edu/students/timeschd",
		Term:           "AUT2018",
		ScheduleFile:   "time_schedule.csv",
		RegistryFile:   "classrooms.json",
		CalendarDir:    "calendars",
		Timezone:       "America/Los_Angeles",
		UserAgent:      "Mozilla/5.0 (compatible; timeschd-roomfinder)",
		RequestTimeout: Duration{30 * time.Second},
	}
}

// TermURL is the index page listing every department of the term.
func (c *Config) TermURL() string {
	return c.BaseURL + "/" + c.Term + "/"
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Level returns the configured log level, or fallback when none was set.
func (c *Config) Level(fallback string) string {
	if c.LogLevel == "" {
		return fallback
	}
	return c.LogLevel
}

// LoadConfig reads filename over the defaults, then applies .env and
// ROOMFINDER_* environment overrides. A missing DefaultFile is not an error.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		filename = DefaultFile
	}

	file, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist) && filename == DefaultFile:
	case err != nil:
		return nil, err
	default:
		defer file.Close()
		decoder := json.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("error decoding config %s: %w", filename, err)
		}
	}

	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ROOMFINDER_BASE_URL":      &cfg.BaseURL,
		"ROOMFINDER_TERM":          &cfg.Term,
		"ROOMFINDER_SCHEDULE_FILE": &cfg.ScheduleFile,
		"ROOMFINDER_REGISTRY_FILE": &cfg.RegistryFile,
		"ROOMFINDER_CALENDAR_DIR":  &cfg.CalendarDir,
		"ROOMFINDER_TIMEZONE":      &cfg.Timezone,
		"ROOMFINDER_USER_AGENT":    &cfg.UserAgent,
		"ROOMFINDER_LOG_LEVEL":     &cfg.LogLevel,
		"ROOMFINDER_GITHUB_TOKEN":  &cfg.GithubToken,
		"ROOMFINDER_GITHUB_REPO":   &cfg.GithubRepo,
		"ROOMFINDER_GITHUB_PATH":   &cfg.GithubPath,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("ROOMFINDER_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROOMFINDER_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = Duration{d}
	}
	if v := os.Getenv("ROOMFINDER_LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ROOMFINDER_LOG_DEVELOPMENT %q: %w", v, err)
		}
		cfg.LogDevelopment = b
	}
	return nil
}
