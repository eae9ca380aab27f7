package executor

import (
	"context"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/plan"
)

// worker is the processing loop for one concurrent worker. It runs a step's
// full retry sequence to completion before taking another from the queue.
func (e *Executor) worker(ctx context.Context, readyChan chan *plan.Step, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for s := range readyChan {
		// Losing this transition means the cancellation watcher or a skip
		// propagation already terminated the step while it sat queued.
		if !s.Advance(plan.Ready, plan.Running) {
			continue
		}
		workerLogger := logger.With("workerID", workerID, "stepID", s.ID)
		workerLogger.Debug("Worker picked up step.")

		attempts := e.policy.Perform(ctx, e.act, e.mem, e.plan.Page, s)
		e.attempts.Store(s.ID, attempts)

		succeeded := len(attempts) > 0 && attempts[len(attempts)-1].Success
		if !succeeded {
			workerLogger.Warn("Step failed after exhausting attempts.", "attempts", len(attempts))
			s.Advance(plan.Running, plan.Failed)
			e.wg.Done()
			e.skipDependents(ctx, s)
			continue
		}

		workerLogger.Debug("Step succeeded.", "attempts", len(attempts))
		s.Advance(plan.Running, plan.Succeeded)
		e.wg.Done()

		// Unblock dependents: the last succeeded dependency queues the step.
		for _, dep := range s.Dependents() {
			if dep.DecrementDepCount() == 0 && dep.Advance(plan.Pending, plan.Ready) {
				workerLogger.Debug("Unlocking dependent step.", "dependentID", dep.ID)
				readyChan <- dep
			}
		}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}
