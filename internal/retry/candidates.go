package retry

import "strings"

// candidates is the rotation order of concrete selectors for one step's
// attempt sequence. The best-ranked remembered selector leads when memory
// has a record; the step's declared candidates follow, then memory's
// remaining alternatives. Duplicates collapse to their first position and
// the cursor only moves forward, so no selector is tried twice within one
// sequence by rotation alone.
type candidates struct {
	list []string
	pos  int
}

func newCandidates(ranked, declared []string) *candidates {
	seen := make(map[string]struct{})
	var list []string
	add := func(sel string) {
		if sel == "" {
			return
		}
		if _, ok := seen[sel]; ok {
			return
		}
		seen[sel] = struct{}{}
		list = append(list, sel)
	}

	if len(ranked) > 0 {
		add(ranked[0])
	}
	for _, sel := range declared {
		add(sel)
	}
	for _, sel := range ranked {
		add(sel)
	}
	return &candidates{list: list}
}

// current returns the selector for the next attempt, or "" when the step
// has no selectors at all (navigate, bare waits).
func (c *candidates) current() string {
	if len(c.list) == 0 {
		return ""
	}
	return c.list[c.pos]
}

// advance moves to the next untried candidate. Once the list is exhausted
// it stays on the last entry; remaining attempts re-try it.
func (c *candidates) advance() {
	if c.pos < len(c.list)-1 {
		c.pos++
	}
}

// advanceDifferentForm jumps to the next untried candidate of a different
// resolution form (structural XPath vs attribute/CSS query) and reports
// whether one existed.
func (c *candidates) advanceDifferentForm() bool {
	cur := c.current()
	for i := c.pos + 1; i < len(c.list); i++ {
		if isXPath(c.list[i]) != isXPath(cur) {
			c.pos = i
			return true
		}
	}
	return false
}

func isXPath(sel string) bool {
	return strings.HasPrefix(sel, "//") || strings.HasPrefix(sel, "(//")
}
