// Package facts merges extraction blocks into the canonical fact set that
// every formula library reads.
package facts

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/campusgrade/scorecore/internal/evidence"
	"github.com/campusgrade/scorecore/internal/models"
)

// Set is the closed, deduplicated fact set for one batch. It is read-only
// once built.
type Set struct {
	facts map[string]models.Fact
}

// NewSet builds a Set from facts keyed by field name.
func NewSet(fs ...models.Fact) Set {
	s := Set{facts: make(map[string]models.Fact, len(fs))}
	for _, f := range fs {
		s.facts[f.Field] = f
	}
	return s
}

// Get returns the fact for a canonical field name.
func (s Set) Get(name string) (models.Fact, bool) {
	f, ok := s.facts[name]
	return f, ok
}

// Number returns the numeric value of name, ignoring evidence.
func (s Set) Number(name string) (float64, bool) {
	f, ok := s.facts[name]
	if !ok {
		return 0, false
	}
	return f.Number()
}

// Fields returns the field names in sorted order.
func (s Set) Fields() []string {
	return slices.Sorted(maps.Keys(s.facts))
}

func (s Set) Len() int { return len(s.facts) }

type tier int

const (
	tierVerbatim tier = iota
	tierParsed
	tierPreParsed
)

type candidate struct {
	// evidenced is true when the candidate's own block provenance passes
	// evidence.Validate.
	evidenced bool
	tier      tier
	number    float64
	value     any
	raw       any
	evidence  *models.Evidence
}

// Aggregator turns blocks into a Set. The zero value is not usable; call
// NewAggregator.
type Aggregator struct {
	aliases     evidence.AliasTable
	derivations []Derivation
	logger      *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithAliases replaces the canonical alias table.
func WithAliases(t evidence.AliasTable) Option {
	return func(a *Aggregator) { a.aliases = t }
}

// WithDerivations replaces the derived-fact rules.
func WithDerivations(d []Derivation) Option {
	return func(a *Aggregator) { a.derivations = d }
}

// WithLogger sets the logger. nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		aliases:     evidence.DefaultAliases,
		derivations: DefaultDerivations,
	}
	for _, o := range opts {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Aggregate merges the usable blocks. Values whose own block evidence is
// valid always beat values without it. Within each of those groups,
// pre-parsed "<name>_num" values beat values parsed from raw text, the
// maximum number of a tier wins, and verbatim text is kept only when no
// number exists for the field.
//
// A value is never given another block's provenance. When the winner has
// no provenance of its own but ev records evidence under its name, that
// evidence belongs to a different value and the field is dropped.
func (a *Aggregator) Aggregate(blocks []models.Block, ev evidence.Map) Set {
	best := map[string]*candidate{}

	for _, blk := range blocks {
		if !blk.Usable() {
			a.logger.Debug("skipping invalid block", "block", blk.ID, "type", blk.Type)
			continue
		}
		for _, field := range slices.Sorted(maps.Keys(blk.Facts)) {
			raw := blk.Facts[field]
			value := Scrub(raw)
			if evidence.IsEmptyValue(value) {
				continue
			}

			base, preParsed := strings.CutSuffix(field, evidence.NumericSuffix)
			name := a.aliases.Canonical(base)

			c := &candidate{tier: tierVerbatim, value: value, raw: raw}
			if n, ok := ParseNumeric(value); ok {
				c.tier, c.number, c.value = tierParsed, n, n
				if preParsed {
					c.tier = tierPreParsed
					if rawText, ok := blk.Facts[base]; ok {
						c.raw = rawText
					}
				}
			}
			if e, ok := evidence.ForField(blk, field); ok {
				c.evidence = &e
				c.evidenced, _ = evidence.Validate(c.value, c.evidence)
			}

			if prev, ok := best[name]; !ok || better(c, prev) {
				best[name] = c
			}
		}
	}

	s := Set{facts: make(map[string]models.Fact, len(best))}
	for name, c := range best {
		if c.evidence == nil {
			if _, ok := ev.LookupIn(a.aliases, name); ok {
				a.logger.Debug("dropping fact with foreign provenance", "field", name)
				continue
			}
		}
		s.facts[name] = models.Fact{Field: name, Value: c.value, Raw: c.raw, Evidence: c.evidence}
	}

	for _, d := range a.derivations {
		if f, ok := d.apply(s); ok {
			a.logger.Debug("derived fact", "field", f.Field, "from", d.Source)
			s.facts[f.Field] = f
		}
	}
	return s
}

// better reports whether c should replace prev for the same field.
func better(c, prev *candidate) bool {
	if c.evidenced != prev.evidenced {
		return c.evidenced
	}
	if c.tier != prev.tier {
		return c.tier > prev.tier
	}
	if c.tier == tierVerbatim {
		return false
	}
	return c.number > prev.number
}
