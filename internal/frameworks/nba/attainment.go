package nba

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"

	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Attainment status labels.
const (
	StatusAttained             = "Attained"
	StatusPartiallyAttained    = "Partially Attained"
	StatusNotAttained          = "Not Attained"
	StatusInsufficientEvidence = "Insufficient Evidence"
)

// COAttainment is one course outcome's assessment result. Either the
// student counts or Attainment (a percentage) must be set.
type COAttainment struct {
	CO                  string   `mapstructure:"co"`
	StudentsAboveTarget *float64 `mapstructure:"students_above_target"`
	TotalStudents       *float64 `mapstructure:"total_students"`
	Attainment          *float64 `mapstructure:"attainment"`
}

// Mapping is the declared strength (1, 2 or 3) between a CO and a PO.
type Mapping struct {
	CO    string  `mapstructure:"co"`
	PO    string  `mapstructure:"po"`
	Level float64 `mapstructure:"level"`
}

// Survey is one indirect assessment source, e.g. an alumni survey.
type Survey struct {
	Source string   `mapstructure:"source"`
	Score  *float64 `mapstructure:"score"`
}

// Thresholds are the status cut-offs, in percent.
type Thresholds struct {
	Attained float64
	Partial  float64
}

// Status maps an attainment score to its label.
func (t Thresholds) Status(s models.Score) string {
	v, ok := s.Value()
	switch {
	case !ok:
		return StatusInsufficientEvidence
	case v >= t.Attained:
		return StatusAttained
	case v >= t.Partial:
		return StatusPartiallyAttained
	default:
		return StatusNotAttained
	}
}

// COScore returns the attainment percentage of one CO.
func COScore(co COAttainment) (float64, bool) {
	if co.Attainment != nil {
		return metrics.Cap(*co.Attainment), true
	}
	if co.StudentsAboveTarget == nil || co.TotalStudents == nil || *co.TotalStudents <= 0 {
		return 0, false
	}
	return metrics.Cap(*co.StudentsAboveTarget / *co.TotalStudents * 100), true
}

// DirectPO computes sum(CO attainment * level) / sum(level) for one PO.
// Levels outside 1..3 and COs without attainment are ignored. The result
// is unknown when no level contributes.
func DirectPO(po string, cos map[string]float64, mappings []Mapping) models.Score {
	var items []metrics.Weighted
	for _, m := range mappings {
		if m.PO != po || m.Level < 1 || m.Level > 3 {
			continue
		}
		att, ok := cos[m.CO]
		if !ok {
			continue
		}
		items = append(items, metrics.Weighted{Value: att, Weight: m.Level})
	}
	v, ok := metrics.WeightedMean(items)
	if !ok {
		return models.Unknown(fmt.Sprintf("sum of mapping levels for %s is zero", po))
	}
	return models.Known(v)
}

// Indirect averages the survey scores that are present.
func Indirect(surveys []Survey) models.Score {
	var scores []float64
	for _, s := range surveys {
		if s.Score != nil {
			scores = append(scores, *s.Score)
		}
	}
	if len(scores) == 0 {
		return models.Unknown("no indirect assessment scores")
	}
	return models.Known(metrics.Mean(scores))
}

// Combine merges direct and indirect attainment. With one side missing the
// other is used unchanged and the returned note says which is absent.
func Combine(direct, indirect models.Score, directWeight, indirectWeight float64) (models.Score, string) {
	d, okD := direct.Value()
	i, okI := indirect.Value()
	switch {
	case okD && okI:
		return models.Known(d*directWeight + i*indirectWeight), ""
	case okD:
		return direct, "indirect assessment absent; final uses direct attainment only"
	case okI:
		return indirect, "direct assessment absent; final uses indirect attainment only"
	default:
		return models.Unknown("no direct or indirect assessment data"), ""
	}
}

func decodeList[T any](v any) ([]T, error) {
	var out []T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeMappings accepts either a list of {co, po, level} entries or a
// matrix keyed by CO then PO.
func decodeMappings(v any) ([]Mapping, error) {
	matrix, ok := v.(map[string]any)
	if !ok {
		return decodeList[Mapping](v)
	}
	var out []Mapping
	for _, co := range slices.Sorted(maps.Keys(matrix)) {
		row, ok := matrix[co].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("mapping row %q is not an object", co)
		}
		for _, po := range slices.Sorted(maps.Keys(row)) {
			var level float64
			if err := mapstructure.WeakDecode(row[po], &level); err != nil {
				return nil, fmt.Errorf("mapping %s/%s: %w", co, po, err)
			}
			out = append(out, Mapping{CO: co, PO: po, Level: level})
		}
	}
	return out, nil
}

// decodeSurveys accepts a list of {source, score} entries, a list of bare
// numbers or a map of source to score.
func decodeSurveys(v any) ([]Survey, error) {
	switch val := v.(type) {
	case map[string]any:
		var out []Survey
		for _, src := range slices.Sorted(maps.Keys(val)) {
			var score float64
			if err := mapstructure.WeakDecode(val[src], &score); err != nil {
				return nil, fmt.Errorf("survey %q: %w", src, err)
			}
			out = append(out, Survey{Source: src, Score: &score})
		}
		return out, nil
	case []any:
		if len(val) > 0 {
			if _, isObj := val[0].(map[string]any); !isObj {
				nums, err := decodeList[float64](val)
				if err != nil {
					return nil, err
				}
				out := make([]Survey, len(nums))
				for i := range nums {
					out[i] = Survey{Source: fmt.Sprintf("survey_%d", i+1), Score: &nums[i]}
				}
				return out, nil
			}
		}
	}
	return decodeList[Survey](v)
}
