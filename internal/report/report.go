// Package report renders a RunResult as a plain-text summary for the CLI.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/vk/stepflow/internal/executor"
	"github.com/vk/stepflow/internal/plan"
)

func statusMark(s plan.Status) string {
	switch s {
	case plan.Succeeded:
		return "✓"
	case plan.Failed:
		return "✗"
	case plan.Skipped:
		return "⊘"
	}
	return "?"
}

// Summary renders the per-step outcomes and aggregate counts of a run.
func Summary(res *executor.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan: %s (run %s)\n", res.PlanName, res.RunID)
	for _, sr := range res.Steps {
		fmt.Fprintf(&b, "  %s %-20s %s", statusMark(sr.Status), sr.ID, sr.Status)
		if n := len(sr.Attempts); n > 1 {
			fmt.Fprintf(&b, " (%d attempts)", n)
		}
		if sr.Status == plan.Failed && len(sr.Attempts) > 0 {
			last := sr.Attempts[len(sr.Attempts)-1]
			fmt.Fprintf(&b, ": %s", last.Message)
		}
		if sr.Status == plan.Skipped && sr.SkipReason != "" {
			fmt.Fprintf(&b, ": %s", sr.SkipReason)
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Steps: %d succeeded, %d failed, %d skipped",
		res.Succeeded, res.Failed, res.Skipped)
	if res.RetriedSteps > 0 {
		fmt.Fprintf(&b, " (%d needed retries, %d attempts total)",
			res.RetriedSteps, res.TotalAttempts)
	}
	if res.Cancelled {
		b.WriteString("; run cancelled, partial results")
	}
	fmt.Fprintf(&b, "\nDuration: %s\n", res.Duration.Round(time.Millisecond))
	return b.String()
}
