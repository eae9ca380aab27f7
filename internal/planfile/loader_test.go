package planfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/stepflow/internal/memory"
	"github.com/vk/stepflow/internal/plan"
)

const checkoutPlan = `
plan "checkout" {
  page = "https://shop.example/checkout"

  step "open" {
    action = "navigate"
    value  = "https://shop.example/checkout"
  }

  step "submit" {
    action     = "click"
    role       = "submit button"
    selectors  = ["#submit", "button[type='submit']"]
    depends_on = ["open"]
  }
}
`

func TestParse(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		plans, err := Parse(context.Background(), "checkout.hcl", []byte(checkoutPlan))
		require.NoError(t, err)
		require.Len(t, plans, 1)

		p := plans[0]
		assert.Equal(t, "checkout", p.Name)
		assert.Equal(t, memory.Fingerprint("https://shop.example/checkout"), p.Page)
		require.Len(t, p.Steps, 2)

		submit, _ := p.Step("submit")
		require.NotNil(t, submit)
		assert.Equal(t, plan.ActionClick, submit.Action)
		assert.Equal(t, "submit button", submit.Target.Role)
		assert.Equal(t, []string{"#submit", "button[type='submit']"}, submit.Target.Selectors)
		assert.Equal(t, []string{"open"}, submit.DependsOn)
	})

	t.Run("multiple plans in one file", func(t *testing.T) {
		src := `
plan "first" {
  step "open" {
    action = "navigate"
    value  = "https://a.example/"
  }
}

plan "second" {
  step "open" {
    action = "navigate"
    value  = "https://b.example/"
  }
}
`
		plans, err := Parse(context.Background(), "plans.hcl", []byte(src))
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, "first", plans[0].Name)
		assert.Equal(t, "second", plans[1].Name)
	})

	t.Run("page falls back to the first navigate target", func(t *testing.T) {
		src := `
plan "implicit" {
  step "open" {
    action = "navigate"
    value  = "https://shop.example/cart"
  }
}
`
		plans, err := Parse(context.Background(), "implicit.hcl", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, memory.Fingerprint("https://shop.example/cart"), plans[0].Page)
	})

	t.Run("page falls back to the plan name last", func(t *testing.T) {
		src := `
plan "nameonly" {
  step "wait" {
    action = "wait"
    value  = "100ms"
  }
}
`
		plans, err := Parse(context.Background(), "nameonly.hcl", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, memory.Fingerprint("nameonly"), plans[0].Page)
	})

	t.Run("environment variables interpolate", func(t *testing.T) {
		t.Setenv("STEPFLOW_TEST_BASE", "https://staging.example")
		src := `
plan "env" {
  step "open" {
    action = "navigate"
    value  = "${env.STEPFLOW_TEST_BASE}/login"
  }
}
`
		plans, err := Parse(context.Background(), "env.hcl", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, "https://staging.example/login", plans[0].Steps[0].Value)
	})

	t.Run("unknown action is rejected", func(t *testing.T) {
		src := `
plan "bad" {
  step "x" {
    action = "hover"
  }
}
`
		_, err := Parse(context.Background(), "bad.hcl", []byte(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown action")
		assert.Contains(t, err.Error(), "hover")
	})

	t.Run("structural validation runs at load time", func(t *testing.T) {
		src := `
plan "cyclic" {
  step "a" {
    action     = "click"
    selectors  = ["#a"]
    depends_on = ["b"]
  }
  step "b" {
    action     = "click"
    selectors  = ["#b"]
    depends_on = ["a"]
  }
}
`
		_, err := Parse(context.Background(), "cyclic.hcl", []byte(src))
		require.Error(t, err)
		var verr *plan.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "dependency cycle", verr.Reason)
	})

	t.Run("malformed hcl is rejected", func(t *testing.T) {
		_, err := Parse(context.Background(), "broken.hcl", []byte(`plan "x" {`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.hcl")
	})
}

func TestLoad(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "checkout.hcl")
		require.NoError(t, os.WriteFile(path, []byte(checkoutPlan), 0o644))

		plans, err := Load(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, plans, 1)
	})

	t.Run("directory is searched recursively", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "nested")
		require.NoError(t, os.Mkdir(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(checkoutPlan), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "b.hcl"), []byte(checkoutPlan), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

		plans, err := Load(context.Background(), dir)
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})

	t.Run("empty directory errors", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .hcl plan files")
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
		require.Error(t, err)
	})
}
