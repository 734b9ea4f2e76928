package frameworks

import (
	"fmt"
	"strings"

	"github.com/campusgrade/scorecore/internal/facts"
	"github.com/campusgrade/scorecore/internal/guard"
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Calc accumulates the components, evidence references and notes of one
// criterion evaluation. Every fact read goes through the evidence guard.
type Calc struct {
	in         *Inputs
	criterion  Criterion
	formula    string
	components []models.Component
	refs       []models.EvidenceRef
	notes      []string
	referenced map[string]bool
}

// Begin starts a calculation for c.
func Begin(in *Inputs, c Criterion) *Calc {
	return &Calc{in: in, criterion: c, referenced: map[string]bool{}}
}

// Formula sets the human-readable formula recorded in the trace.
func (c *Calc) Formula(text string) *Calc {
	c.formula = text
	return c
}

// Flag reads an upstream flag.
func (c *Calc) Flag(name string) bool {
	return c.in.Flag(name)
}

// Value returns the first evidenced, non-null value among field and its
// alternates. Values whose evidence fails the guard are skipped and noted.
func (c *Calc) Value(field string, alternates ...string) (any, bool) {
	for _, name := range append([]string{field}, alternates...) {
		f, ok := c.in.Facts.Get(name)
		if !ok || f.IsNull() {
			continue
		}
		ev := f.Evidence
		if ev == nil {
			ev, _ = c.in.Evidence.LookupIn(c.in.aliases(), name)
		}
		if ok, why := guard.ValidateEvidenceRequired(f.Value, ev, name); !ok {
			c.in.logger().Debug("fact discarded", "criterion", c.criterion.ID, "reason", why)
			c.Note("discarded %s", why)
			continue
		}
		if !c.referenced[name] {
			c.referenced[name] = true
			c.refs = append(c.refs, models.EvidenceRef{Field: name, Evidence: *ev})
		}
		return f.Value, true
	}
	return nil, false
}

// Number is Value restricted to numeric facts.
func (c *Calc) Number(field string, alternates ...string) (float64, bool) {
	for _, name := range append([]string{field}, alternates...) {
		v, ok := c.Value(name)
		if !ok {
			continue
		}
		if n, ok := facts.ParseNumeric(v); ok {
			return n, true
		}
		c.Note("%s is not numeric", name)
	}
	return 0, false
}

// Positive is Number restricted to values greater than zero.
func (c *Calc) Positive(field string, alternates ...string) (float64, bool) {
	n, ok := c.Number(field, alternates...)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// Add records an evidenced component with its normalized score.
func (c *Calc) Add(name string, input any, score, weight float64) {
	c.components = append(c.components, models.Component{
		Name:    name,
		Input:   input,
		Score:   models.Known(score),
		Weight:  weight,
		Present: true,
	})
}

// Missing records a component that had no evidenced input.
func (c *Calc) Missing(name string, weight float64) {
	c.components = append(c.components, models.Component{
		Name:   name,
		Score:  models.Unknown("no evidenced input"),
		Weight: weight,
	})
}

// Note appends a trace note.
func (c *Calc) Note(format string, args ...any) {
	c.notes = append(c.notes, fmt.Sprintf(format, args...))
}

func (c *Calc) counts() (present, total int) {
	for _, comp := range c.components {
		if comp.Present {
			present++
		}
	}
	return present, len(c.components)
}

func (c *Calc) weighted() []metrics.Weighted {
	var items []metrics.Weighted
	for _, comp := range c.components {
		if v, ok := comp.Score.Value(); ok {
			items = append(items, metrics.Weighted{Value: v, Weight: comp.Weight})
		}
	}
	return items
}

// Renormalized scores the weighted mean over the components present,
// dividing by their weights only.
func (c *Calc) Renormalized() models.Result {
	present, total := c.counts()
	if present == 0 {
		return c.Unknown(fmt.Sprintf("no evidenced inputs for %s", c.criterion.Name))
	}
	v, ok := metrics.WeightedMean(c.weighted())
	if !ok {
		return c.Unknown("component weights sum to zero")
	}
	status := models.StatusComputed
	if present < total {
		status = models.StatusPartial
		c.Note("renormalized over %d of %d components", present, total)
	}
	return c.finish(models.Known(v), status)
}

// ZeroFilled scores the fixed-weight sum over all components, with each
// missing component contributing zero.
func (c *Calc) ZeroFilled() models.Result {
	present, total := c.counts()
	if present == 0 {
		return c.Unknown(fmt.Sprintf("no evidenced inputs for %s", c.criterion.Name))
	}
	status := models.StatusComputed
	if present < total {
		status = models.StatusPartial
		c.Note("%d of %d components missing and scored 0", total-present, total)
	}
	return c.finish(models.Known(metrics.WeightedSum(c.weighted())), status)
}

// Known returns a computed result with the given score.
func (c *Calc) Known(score float64) models.Result {
	return c.finish(models.Known(score), models.StatusComputed)
}

// Unknown returns a not-computed result carrying reason.
func (c *Calc) Unknown(reason string) models.Result {
	r := c.finish(models.Unknown(reason), models.StatusNotComputed)
	r.Trace.Reason = reason
	return r
}

func (c *Calc) finish(score models.Score, status models.Status) models.Result {
	if !score.IsKnown() {
		status = models.StatusNotComputed
	}
	return models.Result{
		ID:     c.criterion.ID,
		Name:   c.criterion.Name,
		Score:  score,
		Weight: c.criterion.Weight,
		Status: status,
		Trace: models.Trace{
			Formula:      c.formula,
			Components:   c.components,
			EvidenceRefs: c.refs,
			Reason:       score.Reason(),
			Notes:        c.notes,
		},
	}
}

// Normalize maps value against target (target = 100) and caps at 100.
func Normalize(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return metrics.Cap(value / target * 100)
}

// Ratio divides num by den, failing on a non-positive denominator.
func Ratio(num, den float64) (float64, bool) {
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

// Descriptive scores a qualitative fact: 100 when it is a collection with at
// least minItems entries, a map with any entries, or text longer than 100
// characters; 50 for anything thinner.
func Descriptive(v any, minItems int) float64 {
	switch val := v.(type) {
	case []any:
		if len(val) >= minItems {
			return 100
		}
	case map[string]any:
		if len(val) > 0 {
			return 100
		}
	case string:
		if len([]rune(strings.TrimSpace(val))) > 100 {
			return 100
		}
	}
	return 50
}

// Truthy interprets flags such as has_digital_library.
func Truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val > 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "yes", "y", "true", "available", "present":
			return true
		}
	}
	return false
}
