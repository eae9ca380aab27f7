package retry

import (
	"context"
	"time"

	backoff "github.com/sethvargo/go-retry"

	"github.com/vk/stepflow/internal/actuator"
	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/memory"
	"github.com/vk/stepflow/internal/plan"
)

// Memory is the slice of the selector store the policy consults and feeds.
type Memory interface {
	Rank(fingerprint, role string) []string
	Record(fingerprint, role, selector string, outcome memory.Outcome)
}

// Policy drives the attempt loop for a single step. Attempts for one step
// are strictly sequential; a Policy value is safe to share across workers.
type Policy struct {
	// MaxAttempts bounds the attempt loop, first success stops it early.
	MaxAttempts int
	// BaseDelay seeds the capped fibonacci backoff between attempts.
	BaseDelay time.Duration
	// MaxDelay bounds any single inter-attempt delay.
	MaxDelay time.Duration
	// BaseTimeout is the actuator wait budget for the first attempt; a
	// timeout failure doubles it for the next, up to MaxTimeout.
	BaseTimeout time.Duration
	MaxTimeout  time.Duration
}

// NewPolicy returns a Policy with the default budget: three attempts,
// quarter-second base backoff capped at two seconds.
func NewPolicy() *Policy {
	return &Policy{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		BaseTimeout: 10 * time.Second,
		MaxTimeout:  60 * time.Second,
	}
}

// Perform runs the step's action through the attempt loop and returns the
// full attempt history; the last entry determines the step's terminal
// outcome. Every attempt is recorded to memory before it is appended.
// Cancellation is honored between attempts, never mid-action.
func (p *Policy) Perform(ctx context.Context, act actuator.Actuator, mem Memory, fingerprint string, step *plan.Step) []Attempt {
	logger := ctxlog.FromContext(ctx).With("stepID", step.ID, "action", string(step.Action))

	cur := newCandidates(mem.Rank(fingerprint, step.Target.Role), step.Target.Selectors)
	schedule := backoff.WithCappedDuration(p.MaxDelay, backoff.NewFibonacci(p.BaseDelay))

	timeout := p.BaseTimeout
	scrollFirst := false
	reload := false

	var history []Attempt
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		req := actuator.Request{
			Action:      step.Action,
			Selector:    cur.current(),
			Value:       step.Value,
			Timeout:     timeout,
			ScrollFirst: scrollFirst,
			Reload:      reload,
		}
		// Adjustment hints are one-shot; the wait budget persists.
		scrollFirst, reload = false, false

		start := time.Now()
		err := act.Perform(ctx, req)
		latency := time.Since(start)

		rec := Attempt{
			StepID:   step.ID,
			Number:   attempt,
			Selector: req.Selector,
			Success:  err == nil,
			Latency:  latency,
			Time:     start,
		}
		if err != nil {
			rec.Failure = actuator.Classify(err)
			rec.Message = err.Error()
		}

		if req.Selector != "" && step.Target.Role != "" {
			outcome := memory.OutcomeFailure
			if rec.Success {
				outcome = memory.OutcomeSuccess
			}
			mem.Record(fingerprint, step.Target.Role, req.Selector, outcome)
		}
		history = append(history, rec)

		if err == nil {
			if attempt > 1 {
				logger.Info("Step action succeeded after retries.", "attempts", attempt)
			}
			return history
		}

		logger.Warn("Step action attempt failed.",
			"attempt", attempt, "kind", rec.Failure.String(), "selector", req.Selector)

		if attempt == p.MaxAttempts {
			break
		}

		switch rec.Failure {
		case actuator.KindTimeout:
			timeout = min(timeout*2, p.MaxTimeout)
		case actuator.KindTargetNotFound:
			cur.advance()
		case actuator.KindStaleReference:
			reload = true
		case actuator.KindActionIntercepted:
			scrollFirst = true
		case actuator.KindInvalidTarget:
			if !cur.advanceDifferentForm() {
				cur.advance()
			}
		case actuator.KindOther:
			// No adjustment; retry unchanged.
		}

		delay, stop := schedule.Next()
		if stop {
			delay = p.MaxDelay
		}
		if !sleep(ctx, delay) {
			logger.Warn("Run cancelled between attempts, stopping retries.", "attempt", attempt)
			break
		}
	}

	return history
}

// sleep waits for d or until the context is cancelled, reporting whether
// the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
