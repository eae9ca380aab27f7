package retry

import (
	"time"

	"github.com/vk/stepflow/internal/actuator"
)

// Attempt is the record of one try of a step's action.
type Attempt struct {
	StepID   string
	Number   int
	Selector string

	// Success reports whether the actuator accepted the action. On failure,
	// Failure holds the classified kind and Message the actuator's detail.
	Success bool
	Failure actuator.Kind
	Message string

	Latency time.Duration
	Time    time.Time
}
