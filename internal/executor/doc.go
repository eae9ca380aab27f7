// Package executor drives a validated plan to completion against an
// actuator.
//
// Ready steps are dispatched onto a bounded worker pool; each worker runs
// one step's full retry sequence before taking another. A step that fails
// after exhausting its attempts marks its entire downstream subgraph
// skipped without those steps ever reaching the actuator, while independent
// branches keep executing. Step failures are data in the RunResult, never
// run-level errors: the only error a caller can see is a validation error
// raised before execution starts.
//
// External cancellation skips everything not yet dispatched and lets
// in-flight attempts finish, so the result still reports partial outcomes.
package executor
