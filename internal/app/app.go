// Package app wires the execution engine together: configuration, logging,
// plan loading, selector memory, actuator selection, and the run lifecycle.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	httpServer *http.Server
}

// New constructs a fully initialized App: settings file applied, defaults
// filled, logger configured.
func New(outW io.Writer, raw Config) (*App, error) {
	if raw.ConfigFile != "" {
		if err := applySettingsFile(&raw, raw.ConfigFile); err != nil {
			return nil, err
		}
	}
	cfg, err := NewConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}, nil
}

// Config returns the effective configuration. Primarily for testing.
func (a *App) Config() *Config {
	return a.config
}
