package executor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vk/stepflow/internal/actuator"
	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/plan"
	"github.com/vk/stepflow/internal/retry"
)

// Executor orchestrates one plan run. Create with New, run once with Run.
type Executor struct {
	plan     *plan.Plan
	act      actuator.Actuator
	mem      retry.Memory
	policy   *retry.Policy
	workers  int
	wg       sync.WaitGroup
	attempts sync.Map // step id -> []retry.Attempt
}

// New creates an executor for a validated plan. maxConcurrency bounds the
// worker pool; values below one are clamped to one.
func New(p *plan.Plan, act actuator.Actuator, mem retry.Memory, policy *retry.Policy, maxConcurrency int) *Executor {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if policy == nil {
		policy = retry.NewPolicy()
	}
	return &Executor{
		plan:    p,
		act:     act,
		mem:     mem,
		policy:  policy,
		workers: maxConcurrency,
	}
}

// Run executes the plan and always returns a RunResult: step failures and
// cancellation surface as data, never as an error.
func (e *Executor) Run(ctx context.Context) *RunResult {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	readyChan := make(chan *plan.Step, len(e.plan.Steps))
	e.wg.Add(len(e.plan.Steps))

	seeded := 0
	for _, s := range e.plan.ReadySteps() {
		if s.Advance(plan.Pending, plan.Ready) {
			readyChan <- s
			seeded++
		}
	}
	logger.Debug("Seeded root steps.", "count", seeded, "total", len(e.plan.Steps))

	done := make(chan struct{})
	go e.watchCancellation(ctx, done)

	logger.Debug("Starting worker pool.", "workers", e.workers)
	for i := 0; i < e.workers; i++ {
		go e.worker(ctx, readyChan, i)
	}

	e.wg.Wait()
	close(done)
	close(readyChan)

	res := e.collect(started)
	res.Cancelled = ctx.Err() != nil
	logger.Info("Plan run finished.",
		"plan", e.plan.Name,
		"succeeded", res.Succeeded, "failed", res.Failed, "skipped", res.Skipped,
		"duration", res.Duration)
	return res
}

// watchCancellation force-skips every step that has not been dispatched yet
// once the run context is cancelled. In-flight steps are left to their
// workers, which finish the current attempt.
func (e *Executor) watchCancellation(ctx context.Context, done <-chan struct{}) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}
	logger := ctxlog.FromContext(ctx)
	for _, s := range e.plan.Steps {
		if e.forceSkip(s, "run cancelled") {
			logger.Warn("Skipping step, run cancelled.", "stepID", s.ID)
		}
	}
}

// forceSkip moves a not-yet-running step to Skipped, reporting whether this
// call performed the transition. The reason write is safe: only the
// transition winner writes it, and results are read after wg.Wait.
func (e *Executor) forceSkip(s *plan.Step, reason string) bool {
	if s.Advance(plan.Pending, plan.Skipped) || s.Advance(plan.Ready, plan.Skipped) {
		s.SkipReason = reason
		e.wg.Done()
		return true
	}
	return false
}

// skipDependents transitively skips the whole downstream subgraph of a
// failed or skipped step. Steps already queued as Ready are caught here
// too; their worker dispatch becomes a no-op.
func (e *Executor) skipDependents(ctx context.Context, s *plan.Step) {
	logger := ctxlog.FromContext(ctx)
	for _, dep := range s.Dependents() {
		if e.forceSkip(dep, "upstream step "+s.ID+" did not succeed") {
			logger.Warn("Skipping dependent step.", "stepID", dep.ID, "upstream", s.ID)
			e.skipDependents(ctx, dep)
		}
	}
}

func (e *Executor) collect(started time.Time) *RunResult {
	res := &RunResult{
		RunID:    uuid.NewString(),
		PlanName: e.plan.Name,
		Started:  started,
		Duration: time.Since(started),
	}
	for _, s := range e.plan.Steps {
		sr := StepResult{
			ID:         s.ID,
			Status:     s.Status(),
			SkipReason: s.SkipReason,
		}
		if v, ok := e.attempts.Load(s.ID); ok {
			sr.Attempts = v.([]retry.Attempt)
		}
		switch sr.Status {
		case plan.Succeeded:
			res.Succeeded++
		case plan.Failed:
			res.Failed++
		case plan.Skipped:
			res.Skipped++
		}
		res.TotalAttempts += len(sr.Attempts)
		if len(sr.Attempts) > 1 {
			res.RetriedSteps++
		}
		res.Steps = append(res.Steps, sr)
	}
	return res
}
