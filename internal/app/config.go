package app

import (
	"errors"
	"fmt"
)

// Config holds everything an App instance needs to run. Zero values mean
// "unset": a settings file may fill them, and NewConfig resolves whatever
// is still empty to the defaults.
type Config struct {
	PlanPath   string // .hcl plan file or directory
	MemoryPath string // SQLite selector memory database
	ConfigFile string // optional YAML settings file

	LogFormat   string
	LogLevel    string
	Workers     int
	MaxAttempts int
	Headless    bool
	// HeadlessSet records that Headless was given explicitly rather than
	// defaulted, so a settings file cannot override it.
	HeadlessSet     bool
	DryRun          bool
	HealthcheckPort int
}

// NewConfig validates a Config and fills remaining defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.MemoryPath == "" {
		cfg.MemoryPath = "selector_memory.db"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
