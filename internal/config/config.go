package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the Baylor football calendar.
const (
	DefaultListen       = "127.0.0.1:6158"
	DefaultFeedURL      = "https://baylorbears.com/calendar.ashx/calendar.rss"
	DefaultSportID      = 4
	DefaultTeam         = "Baylor University"
	DefaultHomeLocation = "Waco"
	DefaultTimezone     = "America/Chicago"
	DefaultTTLSeconds   = 3600
	DefaultUserAgent    = "IsItFootballYet/2.6.0"
	DefaultFetchTimeout = 15
	DefaultRefreshCron  = "0 * * * *"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// envPrefix is prepended to every environment override, e.g.
// FOOTBALLYET_FEED_URL.
const envPrefix = "FOOTBALLYET_"

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// FeedURL is the RSS calendar endpoint.
	FeedURL string `yaml:"feed_url" json:"feed_url"`

	// SportID selects the sport on the calendar endpoint.
	SportID int `yaml:"sport_id" json:"sport_id"`

	// Team is the home program's display name.
	Team string `yaml:"team" json:"team"`

	// HomeLocation is the location prefix that marks a home game (e.g. "Waco").
	HomeLocation string `yaml:"home_location" json:"home_location"`

	// Timezone is the IANA zone kick-off times are displayed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// TTLSeconds is the cache bucket width.
	TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`

	// UserAgent is sent with every feed request.
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// FetchTimeoutSeconds bounds a single feed request.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds" json:"fetch_timeout_seconds"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *") for
	// warming the cache in the background.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" json:"log_format"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              DefaultListen,
		FeedURL:             DefaultFeedURL,
		SportID:             DefaultSportID,
		Team:                DefaultTeam,
		HomeLocation:        DefaultHomeLocation,
		Timezone:            DefaultTimezone,
		TTLSeconds:          DefaultTTLSeconds,
		UserAgent:           DefaultUserAgent,
		FetchTimeoutSeconds: DefaultFetchTimeout,
		RefreshCron:         DefaultRefreshCron,
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
		BasicAuth:           nil,
	}
}

// Normalize fills in missing/zero values with defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.FeedURL == "" {
		c.FeedURL = DefaultFeedURL
	}
	if c.SportID <= 0 {
		c.SportID = DefaultSportID
	}
	if c.Team == "" {
		c.Team = DefaultTeam
	}
	if c.HomeLocation == "" {
		c.HomeLocation = DefaultHomeLocation
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.TTLSeconds <= 0 {
		c.TTLSeconds = DefaultTTLSeconds
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = DefaultFetchTimeout
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefreshCron
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	switch c.LogFormat {
	case "text", "json":
		// ok
	default:
		c.LogFormat = DefaultLogFormat
	}
}

// TTL returns the cache bucket width as a duration.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// FetchTimeout returns the feed request timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
//
// In both cases environment overrides are applied last (see ApplyEnv).
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from FOOTBALLYET_* environment variables.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"LISTEN":        &c.Listen,
		"FEED_URL":      &c.FeedURL,
		"TEAM":          &c.Team,
		"HOME_LOCATION": &c.HomeLocation,
		"TIMEZONE":      &c.Timezone,
		"USER_AGENT":    &c.UserAgent,
		"REFRESH":       &c.RefreshCron,
		"LOG_LEVEL":     &c.LogLevel,
		"LOG_FORMAT":    &c.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SPORT_ID":              &c.SportID,
		"TTL_SECONDS":           &c.TTLSeconds,
		"FETCH_TIMEOUT_SECONDS": &c.FetchTimeoutSeconds,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	user, hasUser := os.LookupEnv(envPrefix + "BASIC_AUTH_USERNAME")
	pass, hasPass := os.LookupEnv(envPrefix + "BASIC_AUTH_PASSWORD")
	if hasUser && hasPass {
		c.BasicAuth = &BasicAuthConfig{Username: user, Password: pass}
	}

	c.Normalize()
	return nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".footballyet-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
