package plan

import "fmt"

// Action enumerates the kinds of atomic UI actions a step can perform.
type Action string

const (
	ActionNavigate Action = "navigate"
	ActionClick    Action = "click"
	ActionType     Action = "type"
	ActionSelect   Action = "select"
	ActionWait     Action = "wait"
	ActionAssert   Action = "assert"
)

// ParseAction converts the wire representation of an action into an Action,
// rejecting anything outside the fixed set.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionNavigate, ActionClick, ActionType, ActionSelect, ActionWait, ActionAssert:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}
