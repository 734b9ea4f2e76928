package facts

import (
	"encoding/json"

	"github.com/campusgrade/scorecore/internal/models"
	"github.com/tidwall/gjson"
)

// Derivation fills Target by summing the numbers found at Path inside the
// structured fact Source. It applies only when Target is absent, and the
// derived fact inherits Source's evidence.
type Derivation struct {
	Target string
	Source string
	Path   string
}

// DefaultDerivations recover headcounts from per-programme and
// per-department listings.
var DefaultDerivations = []Derivation{
	{Target: "student_count", Source: "programs_approved", Path: "#.intake"},
	{Target: "faculty_count", Source: "departments", Path: "#.faculty"},
}

func (d Derivation) apply(s Set) (models.Fact, bool) {
	if _, exists := s.facts[d.Target]; exists {
		return models.Fact{}, false
	}
	src, ok := s.facts[d.Source]
	if !ok || src.Evidence == nil {
		return models.Fact{}, false
	}
	data, err := json.Marshal(src.Value)
	if err != nil {
		return models.Fact{}, false
	}

	res := gjson.GetBytes(data, d.Path)
	if !res.Exists() {
		return models.Fact{}, false
	}
	total, found := 0.0, 0
	for _, item := range res.Array() {
		n, ok := ParseNumeric(item.Value())
		if !ok {
			continue
		}
		total += n
		found++
	}
	if found == 0 {
		return models.Fact{}, false
	}
	return models.Fact{Field: d.Target, Value: total, Raw: src.Value, Evidence: src.Evidence}, true
}
