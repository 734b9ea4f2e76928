// Package engine runs one scoring pass: facts and evidence are resolved in
// full first, then the framework library evaluates every criterion, and
// finally the overall score and batch verdict are derived.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusgrade/scorecore/internal/aggregate"
	"github.com/campusgrade/scorecore/internal/evidence"
	"github.com/campusgrade/scorecore/internal/facts"
	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/frameworks/aicte"
	"github.com/campusgrade/scorecore/internal/frameworks/naac"
	"github.com/campusgrade/scorecore/internal/frameworks/nba"
	"github.com/campusgrade/scorecore/internal/frameworks/nirf"
	"github.com/campusgrade/scorecore/internal/guard"
	"github.com/campusgrade/scorecore/internal/models"
)

//go:generate go tool mockgen -source=engine.go -destination=mock_provider_test.go -package=engine

// FactProvider supplies the extraction blocks of a batch.
type FactProvider interface {
	Blocks(ctx context.Context, batchID string) ([]models.Block, error)
}

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	logger      *slog.Logger
	naacProfile naac.WeightProfile
	nbaOptions  []nba.Option
	expected    map[models.Framework][]string
	aliases     evidence.AliasTable
	derivations []facts.Derivation
	now         func() time.Time
}

// WithLogger sets the logger; nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithNAACProfile selects the NAAC criterion weight table.
func WithNAACProfile(p naac.WeightProfile) Option {
	return func(s *settings) { s.naacProfile = p }
}

// WithNBAOptions passes options to the NBA library.
func WithNBAOptions(opts ...nba.Option) Option {
	return func(s *settings) { s.nbaOptions = append(s.nbaOptions, opts...) }
}

// WithExpectedBlocks declares, per framework, the block types used for the
// completeness indicator.
func WithExpectedBlocks(m map[models.Framework][]string) Option {
	return func(s *settings) { s.expected = m }
}

// WithAliases replaces the canonical field alias table.
func WithAliases(t evidence.AliasTable) Option {
	return func(s *settings) { s.aliases = t }
}

// WithDerivations replaces the derived-fact rules.
func WithDerivations(d []facts.Derivation) Option {
	return func(s *settings) { s.derivations = d }
}

// WithClock sets the time source for academic-year checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// Engine holds the per-framework dispatch table. It is safe for concurrent
// use; each evaluation works on its own batch.
type Engine struct {
	libraries  map[models.Framework]frameworks.Library
	policies   map[models.Framework]aggregate.Policy
	aggregator *facts.Aggregator
	aliases    evidence.AliasTable
	expected   map[models.Framework][]string
	logger     *slog.Logger
	now        func() time.Time
}

// New builds an engine with all four framework libraries.
func New(opts ...Option) (*Engine, error) {
	s := settings{
		naacProfile: naac.ProfileHandbook,
		aliases:     evidence.DefaultAliases,
		derivations: facts.DefaultDerivations,
		now:         time.Now,
	}
	for _, o := range opts {
		o(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	naacLib, err := naac.New(s.naacProfile)
	if err != nil {
		return nil, err
	}
	nbaLib := nba.New(s.nbaOptions...)
	aicteLib := aicte.New()
	nirfLib := nirf.New()

	return &Engine{
		libraries: map[models.Framework]frameworks.Library{
			models.FrameworkAICTE: aicteLib,
			models.FrameworkNBA:   nbaLib,
			models.FrameworkNAAC:  naacLib,
			models.FrameworkNIRF:  nirfLib,
		},
		policies: map[models.Framework]aggregate.Policy{
			models.FrameworkAICTE: {Kind: aggregate.KindPartialAverage, IDs: ids(aicteLib)},
			models.FrameworkNBA:   {Kind: aggregate.KindPartialAverage, IDs: ids(nbaLib)},
			models.FrameworkNAAC:  {Kind: aggregate.KindFullCoverage, IDs: ids(naacLib), Weights: naacLib.Weights()},
			models.FrameworkNIRF:  {Kind: aggregate.KindConditionalParameter, IDs: nirf.Required, Optional: nirf.Optional},
		},
		aggregator: facts.NewAggregator(
			facts.WithAliases(s.aliases),
			facts.WithDerivations(s.derivations),
			facts.WithLogger(s.logger),
		),
		aliases:  s.aliases,
		expected: s.expected,
		logger:   s.logger,
		now:      s.now,
	}, nil
}

func ids(lib frameworks.Library) []string {
	var out []string
	for _, c := range lib.Criteria() {
		out = append(out, c.ID)
	}
	return out
}

// Library returns the formula library for fw.
func (e *Engine) Library(fw models.Framework) (frameworks.Library, error) {
	lib, ok := e.libraries[fw]
	if !ok {
		return nil, fmt.Errorf("%w %q", models.ErrUnknownFramework, string(fw))
	}
	return lib, nil
}

// Evaluate validates req, asks provider for the batch blocks and scores
// them. A nil provider means the blocks embedded in req are used.
func (e *Engine) Evaluate(ctx context.Context, req *models.Request, provider FactProvider) (*models.Evaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	blocks := req.ExtractionBlocks
	if provider != nil {
		var err error
		blocks, err = provider.Blocks(ctx, req.BatchID)
		if err != nil {
			return nil, fmt.Errorf("loading blocks for batch %q: %w", req.BatchID, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.EvaluateBatch(req.Batch(blocks))
}

// EvaluateBatch scores b and writes its validity flag. Nothing else on b is
// modified.
func (e *Engine) EvaluateBatch(b *models.Batch) (*models.Evaluation, error) {
	lib, err := e.Library(b.Framework)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With("batch", b.ID, "framework", b.Framework.Name())

	usable := b.UsableBlocks()
	evMap := evidence.BuildMap(usable)
	set := e.aggregator.Aggregate(usable, evMap)
	logger.Debug("facts aggregated", "blocks", len(usable), "facts", set.Len(), "evidenced", len(evMap))

	in := &frameworks.Inputs{
		Facts:    set,
		Evidence: evMap,
		Aliases:  e.aliases,
		Flags:    b.UpstreamFlags,
		Logger:   logger,
	}
	results, order, err := frameworks.ComputeAll(lib, in)
	if err != nil {
		return nil, err
	}

	warnings := guard.SanityCheck(set)
	if ok, why := guard.ValidateYear(b.AcademicYear, b.IsNewInstitution, e.now()); !ok {
		warnings = append(warnings, why)
	}
	for _, w := range warnings {
		logger.Debug("sanity warning", "warning", w)
	}

	overall, err := aggregate.Compute(e.policies[b.Framework], results)
	if err != nil {
		return nil, err
	}
	if b.Framework == models.FrameworkNAAC {
		overall.Grade = naac.GradeFor(overall.Value)
	}

	completeness := guard.Completeness(b, e.expected[b.Framework])
	verdict := guard.MarkBatchInvalidIfNeeded(b, overall, completeness, logger)
	logger.Debug("evaluation complete", "overall", overall.Value.String(), "valid", verdict.IsValid)

	return &models.Evaluation{
		BatchID:      b.ID,
		Framework:    b.Framework,
		Results:      results,
		Order:        order,
		Overall:      overall,
		Verdict:      verdict,
		Completeness: completeness,
		Warnings:     warnings,
	}, nil
}
