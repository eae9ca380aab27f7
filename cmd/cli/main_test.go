package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/cli"
)

func TestRun(t *testing.T) {
	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(&out, nil))
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("flag errors map to exit code 2", func(t *testing.T) {
		var out bytes.Buffer
		err := run(&out, []string{"-bogus"})
		var exitErr *cli.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("dry run executes end to end", func(t *testing.T) {
		dir := t.TempDir()
		planPath := filepath.Join(dir, "plan.hcl")
		require.NoError(t, os.WriteFile(planPath, []byte(`
plan "smoke" {
  step "open" {
    action = "navigate"
    value  = "https://shop.example/"
  }
}
`), 0o644))

		var out bytes.Buffer
		err := run(&out, []string{
			"-dry-run",
			"-log-level", "error",
			"-memory", filepath.Join(dir, "mem.db"),
			planPath,
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Steps: 1 succeeded, 0 failed, 0 skipped")
	})

	t.Run("settings file controls logging when flags are left default", func(t *testing.T) {
		dir := t.TempDir()
		planPath := filepath.Join(dir, "plan.hcl")
		require.NoError(t, os.WriteFile(planPath, []byte(`
plan "smoke" {
  step "open" {
    action = "navigate"
    value  = "https://shop.example/"
  }
}
`), 0o644))
		settingsPath := filepath.Join(dir, "settings.yaml")
		require.NoError(t, os.WriteFile(settingsPath, []byte("log_level: debug\nlog_format: json\n"), 0o644))

		var out bytes.Buffer
		err := run(&out, []string{
			"-dry-run",
			"-config", settingsPath,
			"-memory", filepath.Join(dir, "mem.db"),
			planPath,
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"level":"DEBUG"`, "settings file log level took effect")
	})
}
