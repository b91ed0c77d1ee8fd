package pipeline

import (
	"fmt"
	"strings"
)

// BuildReport summarizes the editorial process for one run: iteration count,
// final score, status, and what the editor liked.
func BuildReport(rc *RunContext, threshold float64) string {
	var sb strings.Builder
	sb.WriteString("=== EDITORIAL REVIEW REPORT ===\n\n")

	verdicts := rc.Verdicts()
	fmt.Fprintf(&sb, "Reviews: %d\n", len(verdicts))

	var last EditorVerdict
	if len(verdicts) > 0 {
		last = verdicts[len(verdicts)-1]
	}
	fmt.Fprintf(&sb, "Final score: %.1f/10\n", last.Score)

	status := "NEEDS WORK"
	if last.Score >= threshold {
		status = "APPROVED"
	} else if last.Forced {
		status = "FORCED STOP (best draft kept)"
	}
	fmt.Fprintf(&sb, "Status: %s\n", status)

	if len(last.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		for _, s := range last.Strengths {
			fmt.Fprintf(&sb, "  + %s\n", s)
		}
	}
	if len(last.Issues) > 0 {
		sb.WriteString("\nOpen issues:\n")
		for _, s := range last.Issues {
			fmt.Fprintf(&sb, "  - %s\n", s)
		}
	}

	if draft, ok := rc.LatestDraft(); ok {
		fmt.Fprintf(&sb, "\nFinal draft: revision %d, ~%d words\n", draft.Revision, len(strings.Fields(draft.Body)))
	}
	if kw := rc.Keywords(); len(kw) > 0 {
		fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(kw, ", "))
	}

	sb.WriteString("\n===============================\n")
	return sb.String()
}
