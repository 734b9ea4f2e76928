// Package aggregate combines criterion results into a framework-level
// overall score under one of three policies.
package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Kind names an aggregation policy.
type Kind string

const (
	KindFullCoverage         Kind = "full_coverage"
	KindPartialAverage       Kind = "partial_average"
	KindConditionalParameter Kind = "conditional_parameter"
)

// Policy describes how one framework aggregates. IDs fixes the order of
// the included/excluded/missing lists.
type Policy struct {
	Kind Kind
	IDs  []string
	// Weights are used by full-coverage only; absent ids weigh 1.
	Weights map[string]float64
	// Optional is the single conditional id; it is excluded from IDs.
	Optional string
}

// Compute dispatches to the policy's aggregation.
func Compute(p Policy, results map[string]models.Result) (models.OverallScore, error) {
	switch p.Kind {
	case KindFullCoverage:
		return FullCoverage(results, p.IDs, p.Weights), nil
	case KindPartialAverage:
		return PartialAverage(results, p.IDs), nil
	case KindConditionalParameter:
		return ConditionalParameter(results, p.IDs, p.Optional), nil
	default:
		return models.OverallScore{}, fmt.Errorf("unknown aggregation policy %q", p.Kind)
	}
}

// split partitions ids into those with a known score and the rest.
func split(results map[string]models.Result, ids []string) (known, unknown []string) {
	known, unknown = []string{}, []string{}
	for _, id := range ids {
		if r, ok := results[id]; ok && r.Score.IsKnown() {
			known = append(known, id)
		} else {
			unknown = append(unknown, id)
		}
	}
	return known, unknown
}

func scores(results map[string]models.Result, ids []string) []float64 {
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		v, _ := results[id].Score.Value()
		out = append(out, v)
	}
	return out
}

func spread(vals []float64) float64 {
	return models.Round2(metrics.StdDev(vals))
}

// FullCoverage is unknown when any id lacks a known result; Missing then
// lists exactly those ids. Otherwise the value is the weighted mean of all.
func FullCoverage(results map[string]models.Result, ids []string, weights map[string]float64) models.OverallScore {
	known, missing := split(results, ids)
	out := models.OverallScore{
		Included:    known,
		Excluded:    missing,
		Missing:     missing,
		FormulaUsed: "weighted mean of " + strings.Join(ids, ", ") + "; every criterion required",
	}
	if len(missing) > 0 {
		out.Value = models.Unknown("missing criteria: " + strings.Join(missing, ", "))
		return out
	}

	items := make([]metrics.Weighted, 0, len(ids))
	for _, id := range ids {
		w, ok := weights[id]
		if !ok {
			w = 1
		}
		v, _ := results[id].Score.Value()
		items = append(items, metrics.Weighted{Value: v, Weight: w})
	}
	v, ok := metrics.WeightedMean(items)
	if !ok {
		out.Value = models.Unknown("criterion weights sum to zero")
		return out
	}
	out.Value = models.Known(v)
	out.Spread = spread(scores(results, ids))
	out.IsComplete = true
	return out
}

// PartialAverage is the arithmetic mean of known results; unknown only when
// none is known.
func PartialAverage(results map[string]models.Result, ids []string) models.OverallScore {
	included, excluded := split(results, ids)
	out := models.OverallScore{
		Included:    included,
		Excluded:    excluded,
		FormulaUsed: fmt.Sprintf("mean of available results (%d of %d)", len(included), len(ids)),
		IsComplete:  len(excluded) == 0,
	}
	if len(included) == 0 {
		out.Value = models.Unknown("no criterion could be computed")
		return out
	}
	vals := scores(results, included)
	out.Value = models.Known(metrics.Mean(vals))
	out.Spread = spread(vals)
	return out
}

// ConditionalParameter requires every id in required and folds in optional
// only when its result is known. An unknown optional is reported in
// OptionalMissing and never forces the overall to unknown.
func ConditionalParameter(results map[string]models.Result, required []string, optional string) models.OverallScore {
	required = slices.DeleteFunc(slices.Clone(required), func(id string) bool { return id == optional })
	known, missing := split(results, required)
	out := models.OverallScore{
		Included: known,
		Excluded: slices.Clone(missing),
		Missing:  missing,
	}

	optKnown := false
	if optional != "" {
		if r, ok := results[optional]; ok && r.Score.IsKnown() {
			optKnown = true
		} else {
			out.OptionalMissing = []string{optional}
			out.Excluded = append(out.Excluded, optional)
		}
	}

	if len(missing) > 0 {
		out.FormulaUsed = "mean of " + strings.Join(required, ", ") + "; every required parameter needed"
		out.Value = models.Unknown("missing required parameters: " + strings.Join(missing, ", "))
		return out
	}

	used := slices.Clone(required)
	switch {
	case optKnown:
		used = append(used, optional)
		out.Included = append(out.Included, optional)
		out.FormulaUsed = "mean of " + strings.Join(used, ", ")
	case optional != "":
		out.FormulaUsed = fmt.Sprintf("mean of %s; %s excluded (not available)", strings.Join(required, ", "), optional)
	default:
		out.FormulaUsed = "mean of " + strings.Join(required, ", ")
	}
	vals := scores(results, used)
	out.Value = models.Known(metrics.Mean(vals))
	out.Spread = spread(vals)
	out.IsComplete = optKnown || optional == ""
	return out
}
