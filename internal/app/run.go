package app

import (
	"context"
	"fmt"

	"github.com/vk/stepflow/internal/actuator"
	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/executor"
	"github.com/vk/stepflow/internal/memory"
	"github.com/vk/stepflow/internal/planfile"
	"github.com/vk/stepflow/internal/report"
	"github.com/vk/stepflow/internal/retry"
)

// Run loads the plans, executes them sequentially, and prints a summary per
// plan. Step failures are reported as data; the returned error is non-nil
// only for structural problems (bad plans, broken memory store) or when at
// least one step failed, so the CLI can exit non-zero.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheck(ctx)
		defer a.stopHealthcheck(ctx)
	}

	plans, err := planfile.Load(ctx, a.config.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to load plans: %w", err)
	}
	a.logger.Debug("Plans loaded.", "count", len(plans))

	mem, err := memory.OpenSQLite(a.config.MemoryPath)
	if err != nil {
		return fmt.Errorf("failed to open selector memory: %w", err)
	}
	defer func() {
		if err := mem.Close(); err != nil {
			a.logger.Error("Failed to flush selector memory.", "error", err)
		}
	}()

	act, closeAct := a.newActuator()
	defer closeAct()

	policy := retry.NewPolicy()
	policy.MaxAttempts = a.config.MaxAttempts

	failedSteps := 0
	for _, p := range plans {
		a.logger.Info("🚀 Starting plan execution.", "plan", p.Name, "steps", len(p.Steps))
		exec := executor.New(p, act, mem, policy, a.config.Workers)
		res := exec.Run(ctx)
		failedSteps += res.Failed

		fmt.Fprintln(a.outW, report.Summary(res))
		if ctx.Err() != nil {
			break
		}
	}

	a.logger.Debug("App.Run method finished.")
	if failedSteps > 0 {
		return fmt.Errorf("%d step(s) failed", failedSteps)
	}
	return nil
}

func (a *App) newActuator() (actuator.Actuator, func()) {
	if a.config.DryRun {
		a.logger.Info("Dry run: actions will not touch a browser.")
		return actuator.Noop{}, func() {}
	}
	browser := actuator.NewBrowser(actuator.Options{Headless: a.config.Headless})
	return browser, browser.Close
}
