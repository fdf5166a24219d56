package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultStateDirName   = ".stackrail"
	defaultRequestTimeout = 15 * time.Second

	sessionFileName = ".session.json"
	profileFileName = ".profile.json"
	projectFileName = ".project.json"
)

var ErrMissingBackend = errors.New("backend url and anon key must be configured (SUPABASE_URL, SUPABASE_ANON_KEY)")

// Config holds runtime settings for the StackRail CLI.
//
// Fields:
//   - BackendURL: base URL of the hosted backend (auth under /auth/v1, tables under /rest/v1).
//   - AnonKey: public API key sent with every request.
//   - StateDir: per-user directory holding session, profile and project files.
//   - RequestTimeout: upper bound for a single backend round-trip.
//   - Verbose: enables debug logging.
type Config struct {
	BackendURL     string
	AnonKey        string
	StateDir       string
	RequestTimeout time.Duration
	Verbose        bool
}

// Options carries values collected from command-line flags. Empty fields
// leave the lower-precedence value untouched.
type Options struct {
	ConfigFile string
	DotenvFile string
	BackendURL string
	StateDir   string
	Verbose    bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = ""
	c.AnonKey = ""
	c.StateDir = defaultStateDir()
	c.RequestTimeout = defaultRequestTimeout
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays .env,
// environment, JSON and flag values. Later sources take precedence.
func LoadConfig(opts Options) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	dotenv := opts.DotenvFile
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := parseDotenv(dotenv); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, opts.ConfigFile); err != nil {
		return nil, err
	}
	applyOptions(cfg, opts)
	return cfg, nil
}

// Validate reports whether the backend coordinates are present.
func (c *Config) Validate() error {
	if c.BackendURL == "" || c.AnonKey == "" {
		return ErrMissingBackend
	}
	return nil
}

func (c *Config) SessionFile() string { return filepath.Join(c.StateDir, sessionFileName) }
func (c *Config) ProfileFile() string { return filepath.Join(c.StateDir, profileFileName) }
func (c *Config) ProjectFile() string { return filepath.Join(c.StateDir, projectFileName) }

func applyOptions(cfg *Config, opts Options) {
	if opts.BackendURL != "" {
		cfg.BackendURL = opts.BackendURL
	}
	if opts.StateDir != "" {
		cfg.StateDir = opts.StateDir
	}
	if opts.Verbose {
		cfg.Verbose = true
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultStateDirName
	}
	return filepath.Join(home, defaultStateDirName)
}
