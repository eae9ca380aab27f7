package plan

import (
	"fmt"
	"strings"
)

// ValidationError describes a structurally invalid plan specification. It is
// fatal to the run and reported before any step executes.
type ValidationError struct {
	// Reason is a short machine-stable description of the problem class.
	Reason string
	// IDs names the offending step identities (the duplicate id, the step
	// with its unknown dependency, or the members of a cycle).
	IDs []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan: %s: %s", e.Reason, strings.Join(e.IDs, ", "))
}

// Build validates the given step specifications and constructs an immutable
// Plan. Validation checks, in order: step id uniqueness, referential
// integrity of depends_on, and acyclicity via a three-color depth-first
// traversal. The checks are deterministic, so re-validating the same
// specification yields the same result.
func Build(name, page string, specs []StepSpec) (*Plan, error) {
	p := &Plan{
		Name:  name,
		Page:  page,
		index: make(map[string]*Step, len(specs)),
	}

	for _, spec := range specs {
		if _, exists := p.index[spec.ID]; exists {
			return nil, &ValidationError{Reason: "duplicate step id", IDs: []string{spec.ID}}
		}
		s := &Step{
			ID:        spec.ID,
			Action:    spec.Action,
			Target:    Target{Role: spec.Role, Selectors: spec.Selectors},
			Value:     spec.Value,
			DependsOn: spec.DependsOn,
		}
		p.index[spec.ID] = s
		p.Steps = append(p.Steps, s)
	}

	// Second pass: resolve edges now that every step exists.
	for _, s := range p.Steps {
		for _, depID := range s.DependsOn {
			dep, ok := p.index[depID]
			if !ok {
				return nil, &ValidationError{
					Reason: "unknown dependency",
					IDs:    []string{s.ID, depID},
				}
			}
			s.deps = append(s.deps, dep)
			dep.dependents = append(dep.dependents, s)
		}
		s.depCount.Store(int32(len(s.DependsOn)))
	}

	if cycle := findCycle(p); cycle != nil {
		return nil, &ValidationError{Reason: "dependency cycle", IDs: cycle}
	}

	return p, nil
}

// findCycle runs a depth-first traversal with three-color marking. White
// nodes are unvisited, gray nodes are on the current recursion stack, black
// nodes are fully explored. Any edge into a gray node closes a cycle; the
// returned slice names the cycle's members in traversal order.
func findCycle(p *Plan) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(p.Steps))
	var stack []string

	var visit func(s *Step) []string
	visit = func(s *Step) []string {
		color[s.ID] = gray
		stack = append(stack, s.ID)

		for _, dep := range s.deps {
			switch color[dep.ID] {
			case gray:
				// Slice the stack from the first occurrence of the gray
				// node: those entries are exactly the cycle's members.
				for i, id := range stack {
					if id == dep.ID {
						return append([]string(nil), stack[i:]...)
					}
				}
			case white:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[s.ID] = black
		return nil
	}

	for _, s := range p.Steps {
		if color[s.ID] == white {
			if cycle := visit(s); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
