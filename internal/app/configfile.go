package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSettings is the optional YAML settings file. Values only apply where
// the corresponding flag was left unset, so flags always win; defaults for
// anything still empty afterwards are filled by NewConfig.
type fileSettings struct {
	MemoryPath  string `yaml:"memory_path"`
	LogFormat   string `yaml:"log_format"`
	LogLevel    string `yaml:"log_level"`
	Workers     int    `yaml:"workers"`
	MaxAttempts int    `yaml:"max_attempts"`
	Headless    *bool  `yaml:"headless"`
}

func applySettingsFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}
	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return fmt.Errorf("parse settings file %s: %w", path, err)
	}

	if cfg.MemoryPath == "" {
		cfg.MemoryPath = fs.MemoryPath
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = fs.LogFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = fs.LogLevel
	}
	if cfg.Workers == 0 {
		cfg.Workers = fs.Workers
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = fs.MaxAttempts
	}
	if fs.Headless != nil && !cfg.HeadlessSet {
		cfg.Headless = *fs.Headless
	}
	return nil
}
