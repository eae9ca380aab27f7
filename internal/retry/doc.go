// Package retry wraps a single logical step action in a bounded attempt
// loop with failure-specific adjustment strategies.
//
// Each attempt resolves a concrete selector (preferring what the selector
// memory has learned, falling back to the step's declared candidates),
// invokes the actuator, and classifies any failure into a fixed kind. The
// kind picks the adjustment for the next attempt: a larger wait budget for
// timeouts, candidate rotation when the target was not found, page
// re-acquisition for stale references, a bring-into-view scroll for
// intercepted actions, a selector-form switch for invalid targets.
//
// Every attempt, successful or not, is reported to memory before being
// appended to the returned history. Backoff between attempts follows a
// capped fibonacci schedule and composes with context cancellation.
package retry
