// Package naac implements the seven NAAC institutional criteria and the
// CGPA grade scale. Overall scores use the full-coverage policy.
package naac

import (
	"fmt"
	"slices"

	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Criterion ids.
const (
	C1 = "C1"
	C2 = "C2"
	C3 = "C3"
	C4 = "C4"
	C5 = "C5"
	C6 = "C6"
	C7 = "C7"
)

// WeightProfile selects one of the two published criterion weight tables.
type WeightProfile string

const (
	// ProfileHandbook is the tiered key-indicator split totalling 1000.
	ProfileHandbook WeightProfile = "handbook"
	// ProfileFlat is 0.15 for C1-C6 and 0.10 for C7.
	ProfileFlat WeightProfile = "flat"
)

var profiles = map[WeightProfile]map[string]float64{
	ProfileHandbook: {C1: 150, C2: 200, C3: 250, C4: 100, C5: 100, C6: 100, C7: 100},
	ProfileFlat:     {C1: 0.15, C2: 0.15, C3: 0.15, C4: 0.15, C5: 0.15, C6: 0.15, C7: 0.10},
}

var names = []struct{ id, name string }{
	{C1, "Curricular Aspects"},
	{C2, "Teaching-Learning and Evaluation"},
	{C3, "Research, Innovations and Extension"},
	{C4, "Infrastructure and Learning Resources"},
	{C5, "Student Support and Progression"},
	{C6, "Governance, Leadership and Management"},
	{C7, "Institutional Values and Best Practices"},
}

// Normalization targets (value that scores 100).
const (
	enrolmentTarget   = 1000.0
	publicationTarget = 50.0
	projectTarget     = 10.0
	extensionTarget   = 5.0
	campusAreaTarget  = 10000.0
	libraryTarget     = 50000.0
)

// Library is the NAAC formula table.
type Library struct {
	profile  WeightProfile
	criteria []frameworks.Criterion
	table    frameworks.Table
}

// New returns a library using profile; an unrecognised profile is an error.
func New(profile WeightProfile) (*Library, error) {
	if profile == "" {
		profile = ProfileHandbook
	}
	weights, ok := profiles[profile]
	if !ok {
		return nil, fmt.Errorf("unknown NAAC weight profile %q", profile)
	}
	l := &Library{profile: profile}
	for _, n := range names {
		l.criteria = append(l.criteria, frameworks.Criterion{ID: n.id, Name: n.name, Weight: weights[n.id]})
	}
	l.table = frameworks.Table{
		C1: curricular,
		C2: teachingLearning,
		C3: research,
		C4: infrastructure,
		C5: studentSupport,
		C6: governance,
		C7: values,
	}
	return l, nil
}

func (l *Library) Framework() models.Framework { return models.FrameworkNAAC }

func (l *Library) Criteria() []frameworks.Criterion {
	return slices.Clone(l.criteria)
}

// Weights returns the criterion weights of the active profile.
func (l *Library) Weights() map[string]float64 {
	out := make(map[string]float64, len(l.criteria))
	for _, c := range l.criteria {
		out[c.ID] = c.Weight
	}
	return out
}

func (l *Library) Profile() WeightProfile { return l.profile }

func (l *Library) Compute(id string, in *frameworks.Inputs) (models.Result, error) {
	return l.table.Run(models.FrameworkNAAC, l.criteria, id, in)
}

// component describes one weighted input of a criterion.
type component struct {
	name       string
	fields     []string
	weight     float64
	target     float64 // >0 normalizes a count against target
	percentage bool    // value is already a percentage
	perStudent bool    // value is a count divided by student_count
}

func (p component) add(c *frameworks.Calc) {
	switch {
	case p.target > 0:
		if n, ok := c.Number(p.fields[0], p.fields[1:]...); ok {
			c.Add(p.name, n, frameworks.Normalize(n, p.target), p.weight)
			return
		}
	case p.percentage:
		if n, ok := c.Number(p.fields[0], p.fields[1:]...); ok {
			c.Add(p.name, n, metrics.Cap(n), p.weight)
			return
		}
	case p.perStudent:
		n, okN := c.Number(p.fields[0], p.fields[1:]...)
		total, okT := c.Positive("student_count")
		if okN && okT {
			pct := n / total * 100
			c.Add(p.name, models.Round2(pct), metrics.Cap(pct), p.weight)
			return
		}
	default:
		if v, ok := c.Value(p.fields[0], p.fields[1:]...); ok {
			c.Add(p.name, nil, frameworks.Descriptive(v, 1), p.weight)
			return
		}
	}
	c.Missing(p.name, p.weight)
}

func evaluate(c *frameworks.Calc, formula string, parts ...component) models.Result {
	c.Formula(formula)
	for _, p := range parts {
		p.add(c)
	}
	return c.Renormalized()
}

func curricular(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.4*Design + 0.3*Implementation + 0.3*Flexibility",
		component{name: "curriculum_design", fields: []string{"curriculum_design", "curriculum_planning"}, weight: 0.4},
		component{name: "curriculum_implementation", fields: []string{"curriculum_implementation", "syllabus_implementation"}, weight: 0.3},
		component{name: "academic_flexibility", fields: []string{"academic_flexibility", "elective_courses"}, weight: 0.3},
	)
}

func teachingLearning(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.3*Enrolment(/1000) + 0.4*TeachingLearning + 0.3*Evaluation",
		component{name: "student_enrolment", fields: []string{"student_enrolment", "student_count"}, weight: 0.3, target: enrolmentTarget},
		component{name: "teaching_learning", fields: []string{"teaching_learning_process", "pedagogy"}, weight: 0.4},
		component{name: "evaluation_process", fields: []string{"evaluation_process", "assessment_methods"}, weight: 0.3},
	)
}

func research(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.4*Publications(/50) + 0.3*Projects(/10) + 0.3*Extension(/5)",
		component{name: "publications", fields: []string{"publications"}, weight: 0.4, target: publicationTarget},
		component{name: "research_projects", fields: []string{"research_projects", "funded_projects"}, weight: 0.3, target: projectTarget},
		component{name: "extension_activities", fields: []string{"extension_activities", "community_services"}, weight: 0.3, target: extensionTarget},
	)
}

func infrastructure(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.4*Area(/10000 sqm) + 0.3*LibraryBooks(/50000) + 0.3*IT",
		component{name: "physical_infrastructure", fields: []string{"built_up_area"}, weight: 0.4, target: campusAreaTarget},
		component{name: "library_resources", fields: []string{"library_books"}, weight: 0.3, target: libraryTarget},
		component{name: "it_infrastructure", fields: []string{"it_infrastructure", "computer_labs"}, weight: 0.3},
	)
}

func studentSupport(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.4*Support + 0.3*Progression% + 0.3*Participation%",
		component{name: "student_support", fields: []string{"student_support_services", "student_welfare"}, weight: 0.4},
		component{name: "student_progression", fields: []string{"student_progression_rate", "graduation_rate"}, weight: 0.3, percentage: true},
		component{name: "student_participation", fields: []string{"student_participation", "co_curricular_activities"}, weight: 0.3, perStudent: true},
	)
}

func governance(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.4*Governance + 0.3*Leadership + 0.3*Management",
		component{name: "governance_structure", fields: []string{"governance_structure", "administrative_structure"}, weight: 0.4},
		component{name: "leadership", fields: []string{"leadership", "leadership_team"}, weight: 0.3},
		component{name: "management_practices", fields: []string{"management_practices", "administrative_practices"}, weight: 0.3},
	)
}

func values(c *frameworks.Calc) models.Result {
	return evaluate(c, "0.5*Values + 0.5*BestPractices",
		component{name: "institutional_values", fields: []string{"institutional_values", "core_values"}, weight: 0.5},
		component{name: "best_practices", fields: []string{"best_practices", "innovative_practices"}, weight: 0.5},
	)
}
