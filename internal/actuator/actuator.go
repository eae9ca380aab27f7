package actuator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/stepflow/internal/plan"
)

// Kind classifies an action failure. The set is fixed: the retry policy
// selects its strategy by switching on the kind.
type Kind int

const (
	// KindOther covers failures with no specific retry strategy.
	KindOther Kind = iota
	// KindTimeout means the action did not complete within its wait budget.
	KindTimeout
	// KindTargetNotFound means the selector resolved to no element.
	KindTargetNotFound
	// KindStaleReference means the element went away between resolution and use.
	KindStaleReference
	// KindActionIntercepted means another element swallowed the interaction.
	KindActionIntercepted
	// KindInvalidTarget means the selector itself is malformed or of an
	// unsupported form.
	KindInvalidTarget
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTargetNotFound:
		return "target_not_found"
	case KindStaleReference:
		return "stale_reference"
	case KindActionIntercepted:
		return "action_intercepted"
	case KindInvalidTarget:
		return "invalid_target"
	}
	return "other"
}

// Failure is the typed error an actuator returns for a failed action.
type Failure struct {
	Kind    Kind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Classify extracts the failure kind from an actuator error. Context
// deadline errors count as timeouts; anything untyped is KindOther.
func Classify(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindOther
}

// Request is one atomic action for the actuator to perform. The adjustment
// fields are one-shot hints set by the retry policy between attempts.
type Request struct {
	Action   plan.Action
	Selector string
	Value    string
	// Timeout is the wait budget for this single attempt.
	Timeout time.Duration

	// ScrollFirst asks the actuator to bring the target into view before
	// acting, used after an intercepted action.
	ScrollFirst bool
	// Reload asks the actuator to re-acquire the page context before
	// acting, used after a stale element reference.
	Reload bool
}

// Actuator performs one atomic UI action and reports success or a typed
// failure. Implementations must be safe for concurrent use: multiple plan
// steps may be dispatched in parallel.
type Actuator interface {
	Perform(ctx context.Context, req Request) error
}
