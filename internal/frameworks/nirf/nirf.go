// Package nirf implements the five NIRF ranking parameters. Perception is
// computed only when the survey flag is raised; overall scores use the
// conditional-parameter policy.
package nirf

import (
	"math"
	"slices"

	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Parameter ids.
const (
	TLR = "TLR"
	RP  = "RP"
	GO  = "GO"
	OI  = "OI"
	PR  = "PR"
)

// Required lists the parameters every overall score needs.
var Required = []string{TLR, RP, GO, OI}

// Optional is gated by models.FlagPerceptionSurvey.
const Optional = PR

var criteria = []frameworks.Criterion{
	{ID: TLR, Name: "Teaching, Learning & Resources", Weight: 0.30},
	{ID: RP, Name: "Research & Professional Practice", Weight: 0.30},
	{ID: GO, Name: "Graduation Outcomes", Weight: 0.20},
	{ID: OI, Name: "Outreach & Inclusivity", Weight: 0.10},
	{ID: PR, Name: "Perception", Weight: 0.10},
}

const (
	strengthTarget    = 2000.0
	financeTarget     = 10.0 // crore
	libraryTarget     = 50000.0
	publicationTarget = 100.0
	citationTarget    = 500.0
	patentTarget      = 10.0
	womenTarget       = 40.0
	inclusionTarget   = 20.0
	outreachTarget    = 10.0
)

// Library is the NIRF formula table.
type Library struct {
	table frameworks.Table
}

func New() *Library {
	return &Library{table: frameworks.Table{
		TLR: teachingResources,
		RP:  research,
		GO:  graduationOutcomes,
		OI:  outreach,
		PR:  perception,
	}}
}

func (l *Library) Framework() models.Framework { return models.FrameworkNIRF }

func (l *Library) Criteria() []frameworks.Criterion {
	return slices.Clone(criteria)
}

func (l *Library) Compute(id string, in *frameworks.Inputs) (models.Result, error) {
	return l.table.Run(models.FrameworkNIRF, criteria, id, in)
}

func ratioBand(ratio float64) float64 {
	switch {
	case ratio <= 15:
		return 100
	case ratio <= 20:
		return 80
	case ratio <= 25:
		return 60
	default:
		return math.Max(0, 60-2*(ratio-25))
	}
}

func teachingResources(c *frameworks.Calc) models.Result {
	c.Formula("0.3*Strength(/2000) + 0.3*FSR + 0.2*Finance(/10 crore) + 0.2*Library(/50000)")

	students, okS := c.Positive("student_count")
	if okS {
		c.Add("student_strength", students, frameworks.Normalize(students, strengthTarget), 0.3)
	} else {
		c.Missing("student_strength", 0.3)
	}

	if faculty, ok := c.Positive("faculty_count"); ok && okS {
		ratio := students / faculty
		c.Add("fsr", models.Round2(ratio), ratioBand(ratio), 0.3)
	} else {
		c.Missing("fsr", 0.3)
	}

	if fin, ok := c.Number("financial_resources"); ok {
		c.Add("financial_resources", fin, frameworks.Normalize(fin, financeTarget), 0.2)
	} else {
		c.Missing("financial_resources", 0.2)
	}

	if books, ok := c.Number("library_books"); ok {
		c.Add("library_resources", books, frameworks.Normalize(books, libraryTarget), 0.2)
	} else {
		c.Missing("library_resources", 0.2)
	}
	return c.Renormalized()
}

func research(c *frameworks.Calc) models.Result {
	c.Formula("0.4*Publications(/100) + 0.3*Citations(/500) + 0.3*Patents(/10)")

	countComponent(c, "publications", "publications", publicationTarget, 0.4)
	countComponent(c, "citations", "citations", citationTarget, 0.3)
	countComponent(c, "patents", "patents", patentTarget, 0.3)
	return c.Renormalized()
}

func graduationOutcomes(c *frameworks.Calc) models.Result {
	c.Formula("0.4*Placement% + 0.3*HigherStudies% + 0.3*Graduation%")

	if rate, ok := c.Number("placement_rate"); ok {
		c.Add("placement_rate", rate, metrics.Cap(rate), 0.4)
	} else {
		c.Missing("placement_rate", 0.4)
	}
	shareComponent(c, "higher_studies", "higher_studies_count", 100, 0.3)
	if grad, ok := c.Number("graduation_rate", "pass_percentage"); ok {
		c.Add("graduation_rate", grad, metrics.Cap(grad), 0.3)
	} else {
		c.Missing("graduation_rate", 0.3)
	}
	return c.Renormalized()
}

func outreach(c *frameworks.Calc) models.Result {
	c.Formula("0.4*Women%(/40) + 0.3*Disadvantaged%(/20) + 0.3*Outreach(/10)")

	shareComponent(c, "women_students", "women_students", womenTarget, 0.4)
	shareComponent(c, "economically_disadvantaged", "economically_disadvantaged_students", inclusionTarget, 0.3)
	countComponent(c, "outreach_activities", "outreach_activities", outreachTarget, 0.3, "community_services")
	return c.Renormalized()
}

func perception(c *frameworks.Calc) models.Result {
	c.Formula("0.5*Peer + 0.3*Employer + 0.2*Public; computed only with a perception survey")

	if !c.Flag(models.FlagPerceptionSurvey) {
		return c.Unknown("perception survey not provided")
	}
	for _, p := range []struct {
		name, field, alt string
		weight           float64
	}{
		{"peer_perception", "peer_perception", "peer_ranking", 0.5},
		{"employer_perception", "employer_perception", "employer_rating", 0.3},
		{"public_perception", "public_perception", "public_ranking", 0.2},
	} {
		if v, ok := c.Number(p.field, p.alt); ok {
			c.Add(p.name, v, metrics.Cap(v), p.weight)
		} else {
			c.Missing(p.name, p.weight)
		}
	}
	return c.Renormalized()
}

// countComponent normalizes a count against target.
func countComponent(c *frameworks.Calc, name, field string, target, weight float64, alternates ...string) {
	if n, ok := c.Number(field, alternates...); ok {
		c.Add(name, n, frameworks.Normalize(n, target), weight)
		return
	}
	c.Missing(name, weight)
}

// shareComponent converts a headcount to a percentage of student_count and
// normalizes it against target percent.
func shareComponent(c *frameworks.Calc, name, field string, target, weight float64) {
	n, okN := c.Number(field)
	total, okT := c.Positive("student_count")
	if !okN || !okT {
		c.Missing(name, weight)
		return
	}
	pct := n / total * 100
	c.Add(name, models.Round2(pct), frameworks.Normalize(pct, target), weight)
}
