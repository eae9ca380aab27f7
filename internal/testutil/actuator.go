// Package testutil provides shared test doubles for the execution engine,
// most importantly a scripted actuator that stands in for the browser.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/stepflow/internal/actuator"
)

// Script decides the outcome of one scripted actuator call.
type Script func(req actuator.Request) error

// ScriptedActuator replays a caller-provided script and records every
// request it sees, including how many actions were in flight at once so
// tests can assert on parallelism.
type ScriptedActuator struct {
	mu    sync.Mutex
	calls []actuator.Request

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	script Script
}

// NewScriptedActuator creates an actuator driven by script. A nil script
// succeeds every action.
func NewScriptedActuator(script Script) *ScriptedActuator {
	return &ScriptedActuator{script: script}
}

// Perform implements actuator.Actuator.
func (a *ScriptedActuator) Perform(_ context.Context, req actuator.Request) error {
	n := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	for {
		cur := a.maxInFlight.Load()
		if n <= cur || a.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	a.mu.Lock()
	a.calls = append(a.calls, req)
	a.mu.Unlock()

	if a.script == nil {
		return nil
	}
	return a.script(req)
}

// Calls returns a copy of every request performed, in arrival order.
func (a *ScriptedActuator) Calls() []actuator.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]actuator.Request(nil), a.calls...)
}

// CallCount returns how many actions were performed.
func (a *ScriptedActuator) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// MaxInFlight returns the highest number of concurrently running actions
// observed.
func (a *ScriptedActuator) MaxInFlight() int {
	return int(a.maxInFlight.Load())
}

// Fail builds a typed failure of the given kind, for use in scripts.
func Fail(kind actuator.Kind, msg string) error {
	return &actuator.Failure{Kind: kind, Message: msg}
}
