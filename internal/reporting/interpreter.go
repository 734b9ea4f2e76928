package reporting

import (
	"fmt"
	"strings"

	"github.com/campusgrade/scorecore/internal/models"
)

// InterpretScore returns a plain-language label for a 0-100 score.
func InterpretScore(s models.Score) string {
	v, ok := s.Value()
	if !ok {
		return "Unknown"
	}
	switch {
	case v > 90:
		return "Excellent (>90)"
	case v >= 70:
		return "Good (70-90)"
	case v >= 50:
		return "Needs Work (50-70)"
	default:
		return "Poor (<50)"
	}
}

// InterpretCompleteness explains a completeness percentage.
func InterpretCompleteness(pct float64) string {
	switch {
	case pct >= 100:
		return "All expected blocks present (100%)"
	case pct >= 80:
		return fmt.Sprintf("Most expected blocks present (%.0f%%)", pct)
	case pct >= 50:
		return fmt.Sprintf("About half the expected blocks present (%.0f%%)", pct)
	default:
		return fmt.Sprintf("Few expected blocks present (%.0f%%)", pct)
	}
}

// InterpretVerdict renders the batch validity decision as a sentence.
func InterpretVerdict(v models.Verdict) string {
	if v.IsValid {
		return "Batch is valid for publication."
	}
	return fmt.Sprintf("Batch is invalid: %s. Upload the missing evidence and re-run.", v.Reason)
}

// FormatSummaryReport produces a plain-language summary of an evaluation.
func FormatSummaryReport(ev *models.Evaluation) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")
	fmt.Fprintf(&b, "Overall Score: %s (%s)\n", ev.Overall.Value, InterpretScore(ev.Overall.Value))
	if g := ev.Overall.Grade; g != nil {
		fmt.Fprintf(&b, "Grade:         %s (CGPA %.2f)\n", g.Letter, g.CGPA)
	}
	fmt.Fprintf(&b, "Completeness:  %s\n", InterpretCompleteness(ev.Completeness))
	fmt.Fprintf(&b, "Verdict:       %s\n", InterpretVerdict(ev.Verdict))

	results := ev.Ordered()
	if len(results) > 0 {
		b.WriteString("\nPer-Criterion Interpretation:\n")
		for _, r := range results {
			icon := "✓"
			if !r.Score.IsKnown() {
				icon = "✗"
			}
			fmt.Fprintf(&b, "  %s %s %s: %s\n", icon, r.ID, r.Name, InterpretScore(r.Score))
			if reason := r.Score.Reason(); reason != "" {
				fmt.Fprintf(&b, "    %s\n", reason)
			}
		}
	}

	return b.String()
}
