package plan

import "sync/atomic"

// Target describes what a step acts on: the logical role of the element
// (e.g. "submit button") plus an ordered list of candidate concrete
// selectors for resolving it.
type Target struct {
	Role      string
	Selectors []string
}

// StepSpec is the external, declaration-order record a plan is built from.
type StepSpec struct {
	ID        string
	Action    Action
	Role      string
	Selectors []string
	Value     string
	DependsOn []string
}

// Step is a single vertex in the execution graph, representing one atomic
// UI action. Structure is immutable after Build; only the status advances,
// and exclusively through Advance.
type Step struct {
	ID     string
	Action Action
	Target Target
	Value  string

	// DependsOn preserves the declared dependency ids in order.
	DependsOn []string

	// SkipReason records why a skipped step was never attempted. Written by
	// whichever goroutine performs the terminal transition, read only after
	// the run completes.
	SkipReason string

	deps       []*Step
	dependents []*Step

	// depCount counts not-yet-succeeded dependencies; the executor
	// decrements it once per succeeded dependency.
	depCount atomic.Int32
	status   atomic.Int32
}

// Status atomically reads the step's current status.
func (s *Step) Status() Status {
	return Status(s.status.Load())
}

// Advance attempts the forward transition from → to and reports whether
// this caller performed it. Only the legal forward edges are accepted, and
// compare-and-swap semantics make the terminal transition exclusive:
// exactly one goroutine wins, so a step can never regress or terminate
// twice.
func (s *Step) Advance(from, to Status) bool {
	if !legalTransition(from, to) {
		return false
	}
	return s.status.CompareAndSwap(int32(from), int32(to))
}

func legalTransition(from, to Status) bool {
	switch from {
	case Pending:
		return to == Ready || to == Skipped
	case Ready:
		return to == Running || to == Skipped
	case Running:
		return to == Succeeded || to == Failed
	}
	return false
}

// Deps returns the resolved dependency steps in declaration order.
func (s *Step) Deps() []*Step {
	return s.deps
}

// Dependents returns the steps that directly depend on this one. The reverse
// edges are precomputed by Build so unblocking on completion is O(1) per
// edge rather than a full plan scan.
func (s *Step) Dependents() []*Step {
	return s.dependents
}

// DecrementDepCount atomically decrements the unmet-dependency counter and
// returns the new value. Called by the executor once per succeeded
// dependency; reaching zero means the step is ready.
func (s *Step) DecrementDepCount() int32 {
	return s.depCount.Add(-1)
}
