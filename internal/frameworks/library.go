// Package frameworks defines the contract shared by the four accreditation
// formula libraries and the evidence-gated calculation helper they use.
package frameworks

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/campusgrade/scorecore/internal/evidence"
	"github.com/campusgrade/scorecore/internal/facts"
	"github.com/campusgrade/scorecore/internal/models"
)

// ErrUnknownCriterion is returned when a library is asked for an id it does
// not define. This is a programming error, not missing data.
var ErrUnknownCriterion = errors.New("unknown criterion")

// Criterion describes one scoring unit of a framework.
type Criterion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Library computes criterion results for one framework. Implementations are
// stateless: Compute is a pure function of its inputs.
type Library interface {
	Framework() models.Framework
	Criteria() []Criterion
	Compute(id string, in *Inputs) (models.Result, error)
}

// Inputs is the closed fact set and provenance a library reads from.
type Inputs struct {
	Facts    facts.Set
	Evidence evidence.Map
	// Aliases resolves fallback evidence lookups. nil means
	// evidence.DefaultAliases.
	Aliases evidence.AliasTable
	Flags   map[string]bool
	Logger  *slog.Logger
}

// Flag returns an upstream flag; unset flags are false.
func (in *Inputs) Flag(name string) bool {
	return in.Flags[name]
}

func (in *Inputs) aliases() evidence.AliasTable {
	if in.Aliases == nil {
		return evidence.DefaultAliases
	}
	return in.Aliases
}

func (in *Inputs) logger() *slog.Logger {
	if in.Logger == nil {
		return slog.Default()
	}
	return in.Logger
}

// Table dispatches a criterion id to its formula.
type Table map[string]func(*Calc) models.Result

// Run looks up id in criteria and t and evaluates it.
func (t Table) Run(fw models.Framework, criteria []Criterion, id string, in *Inputs) (models.Result, error) {
	fn, ok := t[id]
	if !ok {
		return models.Result{}, fmt.Errorf("%w %q for framework %s", ErrUnknownCriterion, id, fw.Name())
	}
	for _, c := range criteria {
		if c.ID == id {
			return fn(Begin(in, c)), nil
		}
	}
	return models.Result{}, fmt.Errorf("%w %q for framework %s", ErrUnknownCriterion, id, fw.Name())
}

// ComputeAll evaluates every criterion of lib in declaration order.
func ComputeAll(lib Library, in *Inputs) (map[string]models.Result, []string, error) {
	crit := lib.Criteria()
	results := make(map[string]models.Result, len(crit))
	order := make([]string, 0, len(crit))
	for _, c := range crit {
		r, err := lib.Compute(c.ID, in)
		if err != nil {
			return nil, nil, err
		}
		results[c.ID] = r
		order = append(order, c.ID)
	}
	return results, order, nil
}
