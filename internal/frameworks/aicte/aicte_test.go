package aicte

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrade/scorecore/internal/facts"
	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/models"
)

var ev = &models.Evidence{Snippet: "Table 2.1", Page: 4, SourceDocumentID: "doc-1"}

func inputs(values map[string]any) *frameworks.Inputs {
	var fs []models.Fact
	for k, v := range values {
		fs = append(fs, models.Fact{Field: k, Value: v, Evidence: ev})
	}
	return &frameworks.Inputs{Facts: facts.NewSet(fs...)}
}

func compute(t *testing.T, id string, values map[string]any) models.Result {
	t.Helper()
	r, err := New().Compute(id, inputs(values))
	require.NoError(t, err)
	return r
}

func TestRatioScore(t *testing.T) {
	tests := []struct {
		name     string
		students float64
		want     float64
	}{
		{"ideal ratio", 1500, 100},
		{"linear band", 1750, 80},
		{"band edge", 2000, 60},
		{"penalty band", 2500, 45},
		{"floored at zero", 5000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := compute(t, FSRScore, map[string]any{"faculty_count": 100.0, "student_count": tt.students})
			v, ok := r.Score.Value()
			require.True(t, ok)
			assert.InDelta(t, tt.want, v, 1e-9)
			assert.Equal(t, models.StatusComputed, r.Status)
			assert.Len(t, r.Trace.EvidenceRefs, 2)
		})
	}
}

func TestFSRMissingInputs(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		reason string
	}{
		{"nothing", map[string]any{}, "student_count and faculty_count have no evidenced values"},
		{"only students", map[string]any{"student_count": 1500.0}, "faculty_count has no evidenced value"},
		{"zero faculty", map[string]any{"student_count": 1500.0, "faculty_count": 0.0}, "faculty_count has no evidenced value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := compute(t, FSRScore, tt.values)
			assert.False(t, r.Score.IsKnown())
			assert.Equal(t, models.StatusNotComputed, r.Status)
			assert.Equal(t, tt.reason, r.Trace.Reason)
		})
	}
}

func TestFSRRejectsUnevidencedFacts(t *testing.T) {
	in := &frameworks.Inputs{Facts: facts.NewSet(
		models.Fact{Field: "student_count", Value: 1500.0, Evidence: ev},
		models.Fact{Field: "faculty_count", Value: 100.0, Evidence: &models.Evidence{Page: 1, SourceDocumentID: "doc-1"}},
	)}
	r, err := New().Compute(FSRScore, in)
	require.NoError(t, err)
	assert.False(t, r.Score.IsKnown())
	assert.Contains(t, r.Trace.Notes, "discarded faculty_count: evidence has no snippet")
}

func TestInfrastructureScore(t *testing.T) {
	t.Run("all components", func(t *testing.T) {
		r := compute(t, InfrastructureScore, map[string]any{
			"student_count":     400.0,
			"built_up_area":     1600.0,
			"classrooms":        10.0,
			"library_area":      200.0,
			"digital_resources": 500.0,
			"hostel_capacity":   160.0,
		})
		v, ok := r.Score.Value()
		require.True(t, ok)
		assert.InDelta(t, 100.0, v, 1e-9)
		assert.Equal(t, models.StatusComputed, r.Status)
	})

	t.Run("missing components score zero", func(t *testing.T) {
		r := compute(t, InfrastructureScore, map[string]any{
			"student_count": 400.0,
			"built_up_area": 1600.0,
		})
		v, ok := r.Score.Value()
		require.True(t, ok)
		assert.InDelta(t, 40.0, v, 1e-9)
		assert.Equal(t, models.StatusPartial, r.Status)
	})

	t.Run("digital flag only", func(t *testing.T) {
		r := compute(t, InfrastructureScore, map[string]any{
			"student_count":       400.0,
			"has_digital_library": "yes",
		})
		v, ok := r.Score.Value()
		require.True(t, ok)
		assert.InDelta(t, 5.0, v, 1e-9)
	})

	t.Run("no students", func(t *testing.T) {
		r := compute(t, InfrastructureScore, map[string]any{"built_up_area": 1600.0})
		assert.False(t, r.Score.IsKnown())
	})
}

func TestPlacementIndex(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   float64
		known  bool
	}{
		{"direct rate", map[string]any{"placement_rate": 72.5}, 72.5, true},
		{"placed over eligible", map[string]any{"students_placed": 45.0, "students_eligible": 60.0}, 75, true},
		{"falls back to student count", map[string]any{"students_placed": 30.0, "student_count": 120.0}, 25, true},
		{"capped", map[string]any{"students_placed": 130.0, "students_eligible": 100.0}, 100, true},
		{"zero eligible", map[string]any{"students_placed": 10.0, "students_eligible": 0.0}, 0, false},
		{"nothing", map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := compute(t, PlacementIndex, tt.values)
			v, ok := r.Score.Value()
			require.Equal(t, tt.known, ok)
			if ok {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}

func TestLabCompliance(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   float64
	}{
		{"explicit requirement", map[string]any{"total_labs": 6.0, "required_labs": 8.0}, 75},
		{"derived from students", map[string]any{"total_labs": 6.0, "student_count": 600.0}, 50},
		{"minimum norm", map[string]any{"total_labs": 4.0}, 80},
		{"small intake uses minimum", map[string]any{"total_labs": 5.0, "student_count": 100.0}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := compute(t, LabCompliance, tt.values)
			v, ok := r.Score.Value()
			require.True(t, ok)
			assert.InDelta(t, tt.want, v, 1e-9)
		})
	}

	r := compute(t, LabCompliance, map[string]any{"required_labs": 5.0})
	assert.False(t, r.Score.IsKnown())

	r = compute(t, LabCompliance, map[string]any{"total_labs": 0.0, "required_labs": 5.0})
	assert.False(t, r.Score.IsKnown())
	assert.Equal(t, models.StatusNotComputed, r.Status)
	assert.Contains(t, r.Trace.Reason, "total_labs is zero")
}

func TestUnknownCriterion(t *testing.T) {
	_, err := New().Compute("library_index", inputs(nil))
	require.ErrorIs(t, err, frameworks.ErrUnknownCriterion)
}
