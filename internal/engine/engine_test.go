package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/campusgrade/scorecore/internal/frameworks/aicte"
	"github.com/campusgrade/scorecore/internal/frameworks/naac"
	"github.com/campusgrade/scorecore/internal/frameworks/nirf"
	"github.com/campusgrade/scorecore/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func evidenced(blockType string, facts map[string]any) models.Block {
	return models.Block{
		ID:               blockType + "-1",
		Type:             blockType,
		SourceDocumentID: "doc-" + blockType,
		Facts:            facts,
		BlockEvidence:    &models.Evidence{Snippet: "table on page 3", Page: 3},
		Confidence:       0.9,
	}
}

func fixedClock() time.Time {
	return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithClock(fixedClock)}, opts...)...)
	require.NoError(t, err)
	return e
}

func TestEvaluateUsesProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := NewMockFactProvider(ctrl)

	blocks := []models.Block{
		evidenced("faculty_information", map[string]any{"faculty_count": 100, "student_count": 1500}),
		evidenced("placement_data", map[string]any{"students_placed": 80, "students_eligible": 100}),
	}
	provider.EXPECT().Blocks(gomock.Any(), "batch-1").Return(blocks, nil)

	e := newEngine(t)
	req := &models.Request{BatchID: "batch-1", Framework: models.FrameworkAICTE}
	ev, err := e.Evaluate(context.Background(), req, provider)
	require.NoError(t, err)

	fsr := ev.Results[aicte.FSRScore]
	v, ok := fsr.Score.Value()
	require.True(t, ok)
	assert.InDelta(t, 100.0, v, 1e-9)
	assert.Equal(t, models.StatusComputed, fsr.Status)
	require.NotEmpty(t, fsr.Trace.EvidenceRefs)
	assert.Equal(t, "doc-faculty_information", fsr.Trace.EvidenceRefs[0].Evidence.SourceDocumentID)

	placement, _ := ev.Results[aicte.PlacementIndex].Score.Value()
	assert.InDelta(t, 80.0, placement, 1e-9)

	assert.True(t, ev.Verdict.IsValid)
	assert.Equal(t, []string{aicte.FSRScore, aicte.InfrastructureScore, aicte.PlacementIndex, aicte.LabCompliance}, ev.Order)
	assert.Contains(t, ev.Overall.Excluded, aicte.LabCompliance)
}

func TestEvaluateProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := NewMockFactProvider(ctrl)
	boom := errors.New("store unavailable")
	provider.EXPECT().Blocks(gomock.Any(), "batch-2").Return(nil, boom)

	e := newEngine(t)
	_, err := e.Evaluate(context.Background(), &models.Request{BatchID: "batch-2", Framework: models.FrameworkNBA}, provider)
	require.ErrorIs(t, err, boom)
}

func TestEvaluateRejectsInvalidRequest(t *testing.T) {
	e := newEngine(t)
	_, err := e.Evaluate(context.Background(), &models.Request{Framework: models.FrameworkNBA}, nil)
	require.Error(t, err)
}

func TestEvaluateCancelledContext(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Evaluate(ctx, &models.Request{BatchID: "b", Framework: models.FrameworkNBA}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateBatchUnknownFramework(t *testing.T) {
	e := newEngine(t)
	_, err := e.EvaluateBatch(&models.Batch{ID: "b", Framework: "Z"})
	require.ErrorIs(t, err, models.ErrUnknownFramework)
}

func TestUnevidencedFactsNeverScore(t *testing.T) {
	e := newEngine(t)
	b := &models.Batch{
		ID:        "bare",
		Framework: models.FrameworkAICTE,
		Blocks: []models.Block{{
			ID:    "b1",
			Type:  "faculty_information",
			Facts: map[string]any{"faculty_count": 100, "student_count": 1500},
		}},
	}
	ev, err := e.EvaluateBatch(b)
	require.NoError(t, err)

	assert.False(t, ev.Results[aicte.FSRScore].Score.IsKnown())
	assert.False(t, ev.Overall.Value.IsKnown())
	assert.False(t, ev.Verdict.IsValid)
	assert.Equal(t, "overall score is unknown", ev.Verdict.Reason)
	assert.False(t, b.Valid)
}

func TestUnevidencedValueCannotOutbid(t *testing.T) {
	e := newEngine(t)
	counts := evidenced("faculty_information", map[string]any{"student_count": 1200, "faculty_count": 60})
	counts.BlockEvidence.Snippet = "1200 students, 60 faculty"
	b := &models.Batch{
		ID:        "mixed",
		Framework: models.FrameworkAICTE,
		Blocks: []models.Block{
			counts,
			{ID: "b2", Type: "student_data", Facts: map[string]any{"student_count": 1500}},
		},
	}
	ev, err := e.EvaluateBatch(b)
	require.NoError(t, err)

	fsr := ev.Results[aicte.FSRScore]
	v, ok := fsr.Score.Value()
	require.True(t, ok)
	assert.InDelta(t, 60.0, v, 1e-9)
	require.Len(t, fsr.Trace.Components, 1)
	assert.Equal(t, 20.0, fsr.Trace.Components[0].Input)
	for _, ref := range fsr.Trace.EvidenceRefs {
		assert.Equal(t, counts.ID, ref.Evidence.BlockID)
	}
}

func TestInvalidBlocksAreIgnored(t *testing.T) {
	e := newEngine(t)
	bad := evidenced("faculty_information", map[string]any{"faculty_count": 100, "student_count": 1500})
	bad.Flags.IsInvalid = true

	b := &models.Batch{ID: "b", Framework: models.FrameworkAICTE, Blocks: []models.Block{bad}}
	ev, err := e.EvaluateBatch(b)
	require.NoError(t, err)
	assert.False(t, ev.Results[aicte.FSRScore].Score.IsKnown())
	assert.Equal(t, "no usable extraction blocks", ev.Verdict.Reason)
}

func TestNIRFPerceptionNeedsFlag(t *testing.T) {
	blocks := []models.Block{
		evidenced("perception", map[string]any{"peer_perception": 90, "employer_perception": 80, "public_perception": 70}),
		evidenced("research", map[string]any{"publications": 100, "citations": 500, "patents": 10}),
	}

	tests := []struct {
		name  string
		flags map[string]bool
		known bool
	}{
		{"flag absent", nil, false},
		{"flag false", map[string]bool{models.FlagPerceptionSurvey: false}, false},
		{"flag true", map[string]bool{models.FlagPerceptionSurvey: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t)
			b := &models.Batch{ID: "n", Framework: models.FrameworkNIRF, Blocks: blocks, UpstreamFlags: tt.flags}
			ev, err := e.EvaluateBatch(b)
			require.NoError(t, err)
			assert.Equal(t, tt.known, ev.Results[nirf.PR].Score.IsKnown())
			if !tt.known {
				assert.Equal(t, []string{nirf.PR}, ev.Overall.OptionalMissing)
			}
		})
	}
}

func TestNAACGradeAttached(t *testing.T) {
	text := "Documented across departments with annual review, stakeholder feedback, audit reports and the minutes of every academic council meeting held this year."
	blocks := []models.Block{
		evidenced("naac", map[string]any{
			"curriculum_design":         text,
			"teaching_learning_process": text,
			"publications":              50,
			"built_up_area":             10000,
			"student_support_services":  text,
			"governance_structure":      text,
			"institutional_values":      text,
		}),
	}
	e := newEngine(t)
	ev, err := e.EvaluateBatch(&models.Batch{ID: "c", Framework: models.FrameworkNAAC, Blocks: blocks})
	require.NoError(t, err)

	v, ok := ev.Overall.Value.Value()
	require.True(t, ok, ev.Overall.Value.Reason())
	assert.InDelta(t, 100.0, v, 1e-9)
	require.NotNil(t, ev.Overall.Grade)
	assert.Equal(t, "A++", ev.Overall.Grade.Letter)
	assert.True(t, ev.Overall.Grade.Accredited)
}

func TestNAACMissingCriterion(t *testing.T) {
	e := newEngine(t)
	blocks := []models.Block{evidenced("research", map[string]any{"publications": 25})}
	ev, err := e.EvaluateBatch(&models.Batch{ID: "c", Framework: models.FrameworkNAAC, Blocks: blocks})
	require.NoError(t, err)

	assert.False(t, ev.Overall.Value.IsKnown())
	assert.Equal(t, []string{naac.C1, naac.C2, naac.C4, naac.C5, naac.C6, naac.C7}, ev.Overall.Missing)
	assert.Nil(t, ev.Overall.Grade)
}

func TestCompletenessFromExpectedBlocks(t *testing.T) {
	e := newEngine(t, WithExpectedBlocks(map[models.Framework][]string{
		models.FrameworkAICTE: {"faculty_information", "infrastructure", "placement_data", "lab_information"},
	}))
	b := &models.Batch{ID: "a", Framework: models.FrameworkAICTE, Blocks: []models.Block{
		evidenced("faculty_information", map[string]any{"faculty_count": 100, "student_count": 1500}),
	}}
	ev, err := e.EvaluateBatch(b)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, ev.Completeness, 1e-9)
}

func TestAcademicYearWarning(t *testing.T) {
	e := newEngine(t)
	b := &models.Batch{ID: "y", Framework: models.FrameworkAICTE, AcademicYear: "2019-20", Blocks: []models.Block{
		evidenced("faculty_information", map[string]any{"faculty_count": 100, "student_count": 1500}),
	}}
	ev, err := e.EvaluateBatch(b)
	require.NoError(t, err)
	require.Len(t, ev.Warnings, 1)
	assert.Contains(t, ev.Warnings[0], "2019")
}

func TestNewRejectsUnknownProfile(t *testing.T) {
	_, err := New(WithNAACProfile("tiered"))
	require.Error(t, err)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	e := newEngine(t)
	b := &models.Batch{ID: "r", Framework: models.FrameworkAICTE, Blocks: []models.Block{
		evidenced("faculty_information", map[string]any{"faculty_count": 100, "student_count": 1750}),
	}}
	first, err := e.EvaluateBatch(b)
	require.NoError(t, err)
	second, err := e.EvaluateBatch(b)
	require.NoError(t, err)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Verdict, second.Verdict)
	v, _ := first.Results[aicte.FSRScore].Score.Value()
	assert.InDelta(t, 80.0, v, 1e-9)
}
