package plan

// Plan is a validated DAG of steps forming one execution run. The Page
// fingerprint keys the selector memory for every step in the plan.
type Plan struct {
	Name string
	Page string

	// Steps holds the steps in declaration order.
	Steps []*Step

	index map[string]*Step
}

// Step looks a step up by id.
func (p *Plan) Step(id string) (*Step, bool) {
	s, ok := p.index[id]
	return s, ok
}

// ReadySteps returns, in declaration order, every pending step whose
// dependencies have all succeeded. A skipped dependency never satisfies
// readiness: its dependents are skipped by propagation instead.
func (p *Plan) ReadySteps() []*Step {
	var ready []*Step
	for _, s := range p.Steps {
		if s.Status() != Pending {
			continue
		}
		ok := true
		for _, dep := range s.deps {
			if dep.Status() != Succeeded {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, s)
		}
	}
	return ready
}

// IsTerminal reports whether the run can make no further progress: no step
// is pending, ready, or running.
func (p *Plan) IsTerminal() bool {
	for _, s := range p.Steps {
		if !s.Status().Terminal() {
			return false
		}
	}
	return true
}
