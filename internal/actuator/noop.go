package actuator

import (
	"context"

	"github.com/vk/stepflow/internal/ctxlog"
)

// Noop accepts every action without touching a browser. Used for dry runs
// that rehearse plan structure, scheduling, and skip propagation.
type Noop struct{}

// Perform implements Actuator.
func (Noop) Perform(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Dry-run action.",
		"action", string(req.Action), "selector", req.Selector)
	return nil
}
