package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{PlanPath: "plans/"})
		require.NoError(t, err)
		assert.Equal(t, "selector_memory.db", cfg.MemoryPath)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 3, cfg.MaxAttempts)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("rejects unknown log values", func(t *testing.T) {
		_, err := NewConfig(Config{PlanPath: "p", LogFormat: "xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log format")

		_, err = NewConfig(Config{PlanPath: "p", LogLevel: "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log level")
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg, err := NewConfig(Config{
			PlanPath:    "plans/",
			MemoryPath:  "custom.db",
			Workers:     8,
			MaxAttempts: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, "custom.db", cfg.MemoryPath)
		assert.Equal(t, 8, cfg.Workers)
		assert.Equal(t, 5, cfg.MaxAttempts)
	})

	t.Run("rejects missing plan path", func(t *testing.T) {
		_, err := NewConfig(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PlanPath")
	})

	t.Run("negative counts fall back to defaults", func(t *testing.T) {
		cfg, err := NewConfig(Config{PlanPath: "p", Workers: -1, MaxAttempts: -1})
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, 3, cfg.MaxAttempts)
	})
}

func TestApplySettingsFile(t *testing.T) {
	writeSettings := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("fills unset fields", func(t *testing.T) {
		path := writeSettings(t, `
memory_path: shared.db
log_format: json
log_level: debug
workers: 6
max_attempts: 4
headless: false
`)
		cfg := Config{PlanPath: "plans/"}
		require.NoError(t, applySettingsFile(&cfg, path))

		assert.Equal(t, "shared.db", cfg.MemoryPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 6, cfg.Workers)
		assert.Equal(t, 4, cfg.MaxAttempts)
		assert.False(t, cfg.Headless)
	})

	t.Run("explicit flag values win", func(t *testing.T) {
		path := writeSettings(t, `
memory_path: shared.db
log_format: json
log_level: debug
workers: 6
`)
		cfg := Config{
			PlanPath:   "plans/",
			MemoryPath: "flag.db",
			LogFormat:  "text",
			LogLevel:   "warn",
			Workers:    2,
		}
		require.NoError(t, applySettingsFile(&cfg, path))

		assert.Equal(t, "flag.db", cfg.MemoryPath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, 2, cfg.Workers)
	})

	t.Run("explicit headless flag wins over the file", func(t *testing.T) {
		path := writeSettings(t, "headless: true\n")
		cfg := Config{PlanPath: "plans/", Headless: false, HeadlessSet: true}
		require.NoError(t, applySettingsFile(&cfg, path))
		assert.False(t, cfg.Headless)
	})

	t.Run("missing file errors", func(t *testing.T) {
		cfg := Config{PlanPath: "plans/"}
		err := applySettingsFile(&cfg, filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := writeSettings(t, "workers: [not a number")
		cfg := Config{PlanPath: "plans/"}
		err := applySettingsFile(&cfg, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse settings file")
	})
}
