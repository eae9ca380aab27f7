package planfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/memory"
	"github.com/vk/stepflow/internal/plan"
)

type fileConfig struct {
	Plans []planBlock `hcl:"plan,block"`
}

type planBlock struct {
	Name  string      `hcl:"name,label"`
	Page  string      `hcl:"page,optional"`
	Steps []stepBlock `hcl:"step,block"`
}

type stepBlock struct {
	ID        string   `hcl:"id,label"`
	Action    string   `hcl:"action"`
	Role      string   `hcl:"role,optional"`
	Selectors []string `hcl:"selectors,optional"`
	Value     string   `hcl:"value,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
}

// Load reads every plan from the given path: a single .hcl file or a
// directory searched recursively. Each plan is fully validated; the first
// structural problem aborts the load.
func Load(ctx context.Context, path string) ([]*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plan path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = findPlanFiles(path)
		if err != nil {
			return nil, fmt.Errorf("discover plan files: %w", err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found under %s", path)
	}
	logger.Debug("Discovered plan files.", "count", len(files))

	var plans []*plan.Plan
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read plan file: %w", err)
		}
		loaded, err := Parse(ctx, file, src)
		if err != nil {
			return nil, err
		}
		plans = append(plans, loaded...)
	}
	return plans, nil
}

// Parse decodes and validates every plan block in one HCL document.
func Parse(ctx context.Context, filename string, src []byte) ([]*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}

	var cfg fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", filename, diags)
	}

	var plans []*plan.Plan
	for _, pb := range cfg.Plans {
		p, err := buildPlan(pb)
		if err != nil {
			return nil, fmt.Errorf("plan %q in %s: %w", pb.Name, filename, err)
		}
		logger.Debug("Loaded plan.", "plan", p.Name, "steps", len(p.Steps))
		plans = append(plans, p)
	}
	return plans, nil
}

func buildPlan(pb planBlock) (*plan.Plan, error) {
	specs := make([]plan.StepSpec, 0, len(pb.Steps))
	for _, sb := range pb.Steps {
		action, err := plan.ParseAction(sb.Action)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", sb.ID, err)
		}
		specs = append(specs, plan.StepSpec{
			ID:        sb.ID,
			Action:    action,
			Role:      sb.Role,
			Selectors: sb.Selectors,
			Value:     sb.Value,
			DependsOn: sb.DependsOn,
		})
	}

	page := pb.Page
	if page == "" {
		// Without an explicit page identity, fall back to the first
		// navigation target so memory still keys on something stable.
		for _, sb := range pb.Steps {
			if plan.Action(sb.Action) == plan.ActionNavigate && sb.Value != "" {
				page = sb.Value
				break
			}
		}
	}
	if page == "" {
		page = pb.Name
	}

	return plan.Build(pb.Name, memory.Fingerprint(page), specs)
}

// evalContext exposes process environment variables to plan expressions as
// env.NAME, so credentials and hosts never have to be committed to plan
// files.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			vars[kv[:i]] = cty.StringVal(kv[i+1:])
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(vars)},
	}
}
