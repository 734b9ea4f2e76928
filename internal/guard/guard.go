// Package guard enforces the evidence-presence rule on facts and derives the
// batch validity verdict.
package guard

import (
	"fmt"
	"log/slog"

	"github.com/campusgrade/scorecore/internal/evidence"
	"github.com/campusgrade/scorecore/internal/models"
)

// Invalidation reasons.
const (
	ReasonOverallUnknown = "overall score is unknown"
	ReasonOverallZero    = "overall score is zero"
	ReasonNoCompleteness = "no expected information blocks present"
	ReasonNoUsableBlocks = "no usable extraction blocks"
)

// ValidateEvidenceRequired must pass before a fact value enters any formula.
// A value without a snippet and a source document is rejected; the caller
// treats it as unknown for that calculation only.
func ValidateEvidenceRequired(value any, ev *models.Evidence, field string) (bool, string) {
	ok, why := evidence.Validate(value, ev)
	if ok {
		return true, ""
	}
	return false, fmt.Sprintf("%s: %s", field, why)
}

// MarkBatchInvalidIfNeeded sets b.Valid from the overall score, the
// completeness percentage and the number of usable blocks. It returns the
// verdict it wrote. Calling it again with the same inputs is a no-op.
func MarkBatchInvalidIfNeeded(b *models.Batch, overall models.OverallScore, completeness float64, logger *slog.Logger) models.Verdict {
	if logger == nil {
		logger = slog.Default()
	}

	verdict := models.Verdict{IsValid: true}
	switch {
	case len(b.UsableBlocks()) == 0:
		verdict = models.Verdict{Reason: ReasonNoUsableBlocks}
	case !overall.Value.IsKnown():
		verdict = models.Verdict{Reason: ReasonOverallUnknown}
	case overall.Value.IsZero():
		verdict = models.Verdict{Reason: ReasonOverallZero}
	case completeness <= 0:
		verdict = models.Verdict{Reason: ReasonNoCompleteness}
	}

	if b.Valid != verdict.IsValid {
		logger.Info("batch validity changed", "batch", b.ID, "valid", verdict.IsValid, "reason", verdict.Reason)
	}
	b.Valid = verdict.IsValid
	return verdict
}
