package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/memory"
)

const dryRunPlan = `
plan "smoke" {
  page = "https://shop.example/"

  step "open" {
    action = "navigate"
    value  = "https://shop.example/"
  }

  step "search" {
    action     = "type"
    role       = "search box"
    selectors  = ["input[name=q]"]
    value      = "socks"
    depends_on = ["open"]
  }
}
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		var out bytes.Buffer
		a, err := New(&out, Config{PlanPath: "plans/", LogLevel: "info", LogFormat: "text"})
		require.NoError(t, err)
		assert.Equal(t, 4, a.Config().Workers)
	})

	t.Run("invalid configuration surfaces", func(t *testing.T) {
		var out bytes.Buffer
		_, err := New(&out, Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("settings file applies before validation", func(t *testing.T) {
		dir := t.TempDir()
		settings := filepath.Join(dir, "settings.yaml")
		require.NoError(t, os.WriteFile(settings, []byte("workers: 7\n"), 0o644))

		var out bytes.Buffer
		a, err := New(&out, Config{PlanPath: "plans/", ConfigFile: settings})
		require.NoError(t, err)
		assert.Equal(t, 7, a.Config().Workers)
	})

	t.Run("broken settings file surfaces", func(t *testing.T) {
		var out bytes.Buffer
		_, err := New(&out, Config{PlanPath: "plans/", ConfigFile: "absent.yaml"})
		require.Error(t, err)
	})
}

func TestRunDry(t *testing.T) {
	t.Run("dry run executes the full plan", func(t *testing.T) {
		var out bytes.Buffer
		a, err := New(&out, Config{
			PlanPath:   writePlan(t, dryRunPlan),
			MemoryPath: filepath.Join(t.TempDir(), "mem.db"),
			LogLevel:   "error",
			DryRun:     true,
		})
		require.NoError(t, err)

		require.NoError(t, a.Run(context.Background()))

		summary := out.String()
		assert.Contains(t, summary, "Plan: smoke")
		assert.Contains(t, summary, "✓ open")
		assert.Contains(t, summary, "✓ search")
		assert.Contains(t, summary, "Steps: 2 succeeded, 0 failed, 0 skipped")
	})

	t.Run("selector memory persists across runs", func(t *testing.T) {
		memPath := filepath.Join(t.TempDir(), "mem.db")
		planPath := writePlan(t, dryRunPlan)

		for i := 0; i < 2; i++ {
			var out bytes.Buffer
			a, err := New(&out, Config{
				PlanPath:   planPath,
				MemoryPath: memPath,
				LogLevel:   "error",
				DryRun:     true,
			})
			require.NoError(t, err)
			require.NoError(t, a.Run(context.Background()))
		}

		// Two runs, one recorded success each for the search box selector.
		mem, err := memory.OpenSQLite(memPath)
		require.NoError(t, err)
		defer mem.Close()

		stats := mem.Stats(memory.Fingerprint("https://shop.example/"), "search box")
		require.Len(t, stats, 1)
		assert.Equal(t, "input[name=q]", stats[0].Selector)
		assert.Equal(t, 2, stats[0].Successes)
	})

	t.Run("bad plan path errors", func(t *testing.T) {
		var out bytes.Buffer
		a, err := New(&out, Config{
			PlanPath:   filepath.Join(t.TempDir(), "absent.hcl"),
			MemoryPath: filepath.Join(t.TempDir(), "mem.db"),
			LogLevel:   "error",
			DryRun:     true,
		})
		require.NoError(t, err)

		err = a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load plans")
	})
}
