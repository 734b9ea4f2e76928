// Package reporting renders evaluations as text tables, JSON and JUnit XML.
package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/campusgrade/scorecore/internal/models"
)

const maxNameWidth = 40

var printer = message.NewPrinter(language.English)

// TextOptions controls the text scorecard.
type TextOptions struct {
	// Verbose adds the formula and reason lines under each criterion.
	Verbose bool
}

// WriteText renders ev as an aligned scorecard.
func WriteText(w io.Writer, ev *models.Evaluation, opts TextOptions) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Batch %s (%s)\n\n", ev.BatchID, ev.Framework.Name())

	results := ev.Ordered()
	idW, nameW, scoreW := len("ID"), len("Criterion"), len("Score")
	for _, r := range results {
		idW = max(idW, runewidth.StringWidth(r.ID))
		nameW = max(nameW, runewidth.StringWidth(truncateName(r.Name, maxNameWidth)))
		scoreW = max(scoreW, runewidth.StringWidth(formatScore(r.Score)))
	}

	fmt.Fprintf(&b, "  %s  %s  %s  %s\n", padRight("ID", idW), padRight("Criterion", nameW), padRight("Score", scoreW), "Status")
	fmt.Fprintf(&b, "  %s\n", strings.Repeat("─", idW+nameW+scoreW+len("not_computed")+6))
	for _, r := range results {
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			padRight(r.ID, idW),
			padRight(truncateName(r.Name, maxNameWidth), nameW),
			padRight(formatScore(r.Score), scoreW),
			r.Status)
		if opts.Verbose {
			if r.Trace.Formula != "" {
				fmt.Fprintf(&b, "      formula: %s\n", r.Trace.Formula)
			}
			if reason := r.Score.Reason(); reason != "" {
				fmt.Fprintf(&b, "      reason:  %s\n", reason)
			}
			for _, n := range r.Trace.Notes {
				fmt.Fprintf(&b, "      note:    %s\n", n)
			}
		}
	}

	o := ev.Overall
	fmt.Fprintf(&b, "\nOverall:      %s", formatScore(o.Value))
	if o.FormulaUsed != "" {
		fmt.Fprintf(&b, "  (%s)", o.FormulaUsed)
	}
	b.WriteString("\n")
	if o.Grade != nil {
		fmt.Fprintf(&b, "Grade:        %s  CGPA %s\n", o.Grade.Letter, printer.Sprintf("%.2f", o.Grade.CGPA))
	}
	if len(o.Included) > 1 {
		fmt.Fprintf(&b, "Spread:       %s\n", printer.Sprintf("%.2f", o.Spread))
	}
	if len(o.Excluded) > 0 {
		fmt.Fprintf(&b, "Excluded:     %s\n", strings.Join(o.Excluded, ", "))
	}
	if len(o.Missing) > 0 {
		fmt.Fprintf(&b, "Missing:      %s\n", strings.Join(o.Missing, ", "))
	}
	if len(o.OptionalMissing) > 0 {
		fmt.Fprintf(&b, "Optional:     %s not provided\n", strings.Join(o.OptionalMissing, ", "))
	}
	fmt.Fprintf(&b, "Completeness: %s%%\n", printer.Sprintf("%.2f", ev.Completeness))
	if ev.Verdict.IsValid {
		b.WriteString("Verdict:      valid\n")
	} else {
		fmt.Fprintf(&b, "Verdict:      invalid (%s)\n", ev.Verdict.Reason)
	}

	if len(ev.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warn := range ev.Warnings {
			fmt.Fprintf(&b, "  ⚠ %s\n", warn)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatScore(s models.Score) string {
	v, ok := s.Value()
	if !ok {
		return models.UnknownToken
	}
	return printer.Sprintf("%.2f", v)
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
