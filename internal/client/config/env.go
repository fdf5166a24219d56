package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envConfig is a DTO used exclusively for environment decoding.
type envConfig struct {
	BackendURL     string        `envconfig:"SUPABASE_URL"`
	AnonKey        string        `envconfig:"SUPABASE_ANON_KEY"`
	StateDir       string        `envconfig:"STACKRAIL_STATE_DIR"`
	RequestTimeout time.Duration `envconfig:"STACKRAIL_REQUEST_TIMEOUT"`
}

// parseDotenv exports variables from path into the process environment.
// A missing file is not an error.
func parseDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// parseEnv overlays Config with non-empty environment values.
func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := envconfig.Process("", &ec); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if ec.BackendURL != "" {
		cfg.BackendURL = ec.BackendURL
	}
	if ec.AnonKey != "" {
		cfg.AnonKey = ec.AnonKey
	}
	if ec.StateDir != "" {
		cfg.StateDir = ec.StateDir
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	return nil
}
