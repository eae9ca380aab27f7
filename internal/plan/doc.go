// Package plan defines the validated execution plan: a directed acyclic
// graph of steps with explicit dependency edges.
//
// A Plan is built once from external step specifications via Build, which
// rejects duplicate ids, dangling dependency references, and cycles before
// any execution begins. After validation the plan structure is immutable;
// only per-step statuses change, and those are owned exclusively by the
// executor.
//
// The package also provides the readiness queries the scheduler drives on:
// ReadySteps returns every pending step whose dependencies have all
// succeeded, and IsTerminal reports whether the run can make no further
// progress.
package plan
