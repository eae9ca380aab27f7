package executor

import (
	"time"

	"github.com/vk/stepflow/internal/plan"
	"github.com/vk/stepflow/internal/retry"
)

// StepResult is the terminal record of one step.
type StepResult struct {
	ID     string
	Status plan.Status
	// SkipReason explains why a skipped step was never attempted.
	SkipReason string
	// Attempts is the full attempt history; empty for skipped steps.
	Attempts []retry.Attempt
}

// RunResult is the complete outcome of one plan run.
type RunResult struct {
	RunID    string
	PlanName string

	// Steps holds one result per step, in declaration order.
	Steps []StepResult

	Succeeded int
	Failed    int
	Skipped   int

	// TotalAttempts counts every actuator attempt across all steps;
	// RetriedSteps counts steps that needed more than one.
	TotalAttempts int
	RetriedSteps  int

	Started  time.Time
	Duration time.Duration

	// Cancelled reports that the run was cut short externally and the
	// result is partial.
	Cancelled bool
}

// Step returns the result for a step id, or nil if unknown.
func (r *RunResult) Step(id string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].ID == id {
			return &r.Steps[i]
		}
	}
	return nil
}
