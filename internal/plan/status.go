package plan

// Status is the execution state of a step. A status only ever advances
// forward through Pending → Ready → Running → Succeeded|Failed, or is
// forced to Skipped from a non-running state; it never regresses.
type Status int32

const (
	// Pending indicates the step is waiting for its dependencies to succeed.
	Pending Status = iota
	// Ready indicates every dependency has succeeded and the step is queued
	// for dispatch.
	Ready
	// Running indicates a worker is currently executing the step.
	Running
	// Succeeded indicates the step's final attempt succeeded.
	Succeeded
	// Failed indicates the step exhausted its attempts without success.
	Failed
	// Skipped indicates the step was never attempted because an upstream
	// dependency failed or the run was cancelled.
	Skipped
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}
