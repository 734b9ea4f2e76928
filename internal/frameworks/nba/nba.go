// Package nba implements the NBA programme accreditation criteria,
// including outcome-based attainment. Overall scores use the
// partial-average policy.
package nba

import (
	"fmt"
	"math"
	"slices"

	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Criterion ids.
const (
	PEOsPSOs              = "peos_psos"
	FacultyQuality        = "faculty_quality"
	StudentPerformance    = "student_performance"
	ContinuousImprovement = "continuous_improvement"
	COPOMapping           = "co_po_mapping"
	OutcomeAttainment     = "outcome_attainment"
)

const (
	DefaultDirectWeight   = 0.8
	DefaultIndirectWeight = 0.2
	DefaultAttained       = 70.0
	DefaultPartial        = 50.0
)

const (
	equalShare    = 1.0 / 6
	minObjectives = 3
	phdTarget     = 60.0
	fdpTarget     = 10.0
)

var criteria = []frameworks.Criterion{
	{ID: PEOsPSOs, Name: "PEOs & PSOs", Weight: equalShare},
	{ID: FacultyQuality, Name: "Faculty Quality", Weight: equalShare},
	{ID: StudentPerformance, Name: "Student Performance", Weight: equalShare},
	{ID: ContinuousImprovement, Name: "Continuous Improvement", Weight: equalShare},
	{ID: COPOMapping, Name: "CO-PO Mapping", Weight: equalShare},
	{ID: OutcomeAttainment, Name: "Outcome Attainment", Weight: equalShare},
}

// Option configures a Library.
type Option func(*Library)

// WithAssessmentWeights sets the direct/indirect split for PO attainment.
func WithAssessmentWeights(direct, indirect float64) Option {
	return func(l *Library) {
		l.directWeight, l.indirectWeight = direct, indirect
	}
}

// WithThresholds sets the attainment status cut-offs.
func WithThresholds(t Thresholds) Option {
	return func(l *Library) { l.thresholds = t }
}

// Library is the NBA formula table.
type Library struct {
	table          frameworks.Table
	directWeight   float64
	indirectWeight float64
	thresholds     Thresholds
}

func New(opts ...Option) *Library {
	l := &Library{
		directWeight:   DefaultDirectWeight,
		indirectWeight: DefaultIndirectWeight,
		thresholds:     Thresholds{Attained: DefaultAttained, Partial: DefaultPartial},
	}
	for _, o := range opts {
		o(l)
	}
	l.table = frameworks.Table{
		PEOsPSOs:              peosPSOs,
		FacultyQuality:        facultyQuality,
		StudentPerformance:    studentPerformance,
		ContinuousImprovement: continuousImprovement,
		COPOMapping:           coPOMapping,
		OutcomeAttainment:     l.outcomeAttainment,
	}
	return l
}

func (l *Library) Framework() models.Framework { return models.FrameworkNBA }

func (l *Library) Criteria() []frameworks.Criterion {
	return slices.Clone(criteria)
}

func (l *Library) Compute(id string, in *frameworks.Inputs) (models.Result, error) {
	return l.table.Run(models.FrameworkNBA, criteria, id, in)
}

// FacultyRatioScore is the NBA step scale for the student/faculty ratio.
func FacultyRatioScore(ratio float64) float64 {
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

func peosPSOs(c *frameworks.Calc) models.Result {
	c.Formula("0.5*PEOs + 0.5*PSOs; well-defined = 100, partial = 50")

	if v, ok := c.Value("peos", "program_educational_objectives"); ok {
		c.Add("peos", nil, frameworks.Descriptive(v, minObjectives), 0.5)
	} else {
		c.Missing("peos", 0.5)
	}
	if v, ok := c.Value("psos", "program_specific_outcomes"); ok {
		c.Add("psos", nil, frameworks.Descriptive(v, minObjectives), 0.5)
	} else {
		c.Missing("psos", 0.5)
	}
	return c.Renormalized()
}

func facultyQuality(c *frameworks.Calc) models.Result {
	c.Formula("0.4*FSR + 0.3*PhD% + 0.3*FDP, renormalized over evidenced components")

	faculty, okF := c.Positive("faculty_count")
	students, okS := c.Positive("student_count")
	if okF && okS {
		ratio := students / faculty
		c.Add("fsr", models.Round2(ratio), FacultyRatioScore(ratio), 0.4)
	} else {
		c.Missing("fsr", 0.4)
	}

	if phd, ok := c.Number("phd_faculty"); ok && okF {
		pct := phd / faculty * 100
		c.Add("phd_percentage", models.Round2(pct), frameworks.Normalize(pct, phdTarget), 0.3)
	} else {
		c.Missing("phd_percentage", 0.3)
	}

	if fdp, ok := c.Number("faculty_development_activities"); ok {
		c.Add("faculty_development", fdp, frameworks.Normalize(fdp, fdpTarget), 0.3)
	} else {
		c.Missing("faculty_development", 0.3)
	}
	return c.Renormalized()
}

func studentPerformance(c *frameworks.Calc) models.Result {
	c.Formula("0.4*Placement% + 0.3*Pass% + 0.3*HigherStudies%, renormalized over evidenced components")

	if rate, ok := c.Number("placement_rate"); ok {
		c.Add("placement_rate", rate, metrics.Cap(rate), 0.4)
	} else {
		c.Missing("placement_rate", 0.4)
	}

	if pass, ok := c.Number("pass_percentage"); ok {
		c.Add("pass_percentage", pass, metrics.Cap(pass), 0.3)
	} else {
		c.Missing("pass_percentage", 0.3)
	}

	hs, okH := c.Number("higher_studies_count")
	total, okT := c.Positive("student_count")
	if okH && okT {
		pct := hs / total * 100
		c.Add("higher_studies", models.Round2(pct), metrics.Cap(pct), 0.3)
	} else {
		c.Missing("higher_studies", 0.3)
	}
	return c.Renormalized()
}

func continuousImprovement(c *frameworks.Calc) models.Result {
	c.Formula("0.5*ActionPlan + 0.5*FeedbackImplementation; documented = 100, partial = 50")

	if v, ok := c.Value("action_plan", "quality_action_plan"); ok {
		c.Add("action_plan", nil, frameworks.Descriptive(v, 1), 0.5)
	} else {
		c.Missing("action_plan", 0.5)
	}
	if v, ok := c.Value("feedback_implementation", "feedback_action_taken"); ok {
		c.Add("feedback_implementation", nil, frameworks.Descriptive(v, 1), 0.5)
	} else {
		c.Missing("feedback_implementation", 0.5)
	}
	return c.Renormalized()
}

func coPOMapping(c *frameworks.Calc) models.Result {
	c.Formula("CO-PO mapping quality; well-defined = 100, partial = 50")

	v, ok := c.Value("co_po_mapping", "course_outcome_program_outcome_mapping")
	if !ok {
		return c.Unknown("co_po_mapping has no evidenced value")
	}
	score := frameworks.Descriptive(v, 1)
	c.Add("mapping", nil, score, 1)
	return c.Known(score)
}

func (l *Library) outcomeAttainment(c *frameworks.Calc) models.Result {
	c.Formula(fmt.Sprintf("Final PO = %.1f*Direct + %.1f*Indirect; Direct = sum(CO*level)/sum(level)", l.directWeight, l.indirectWeight))

	direct := l.direct(c)
	indirect := models.Unknown("indirect_survey_scores has no evidenced value")
	if v, ok := c.Value("indirect_survey_scores", "indirect_assessment"); ok {
		surveys, err := decodeSurveys(v)
		if err != nil {
			c.Note("indirect_survey_scores could not be read: %v", err)
		} else {
			indirect = Indirect(surveys)
		}
	}

	addScore(c, "direct", direct, l.directWeight)
	addScore(c, "indirect", indirect, l.indirectWeight)

	final, note := Combine(direct, indirect, l.directWeight, l.indirectWeight)
	if note != "" {
		c.Note("%s", note)
	}
	c.Note("status: %s", l.thresholds.Status(final))

	v, ok := final.Value()
	if !ok {
		return c.Unknown(final.Reason())
	}
	if !direct.IsKnown() || !indirect.IsKnown() {
		r := c.Known(v)
		r.Status = models.StatusPartial
		return r
	}
	return c.Known(v)
}

func (l *Library) direct(c *frameworks.Calc) models.Score {
	rawCOs, ok := c.Value("co_attainment")
	if !ok {
		return models.Unknown("co_attainment has no evidenced value")
	}
	rawMap, ok := c.Value("co_po_mapping", "course_outcome_program_outcome_mapping")
	if !ok {
		return models.Unknown("co_po_mapping has no evidenced value")
	}

	list, err := decodeList[COAttainment](rawCOs)
	if err != nil {
		c.Note("co_attainment could not be read: %v", err)
		return models.Unknown("co_attainment is malformed")
	}
	mappings, err := decodeMappings(rawMap)
	if err != nil {
		c.Note("co_po_mapping could not be read: %v", err)
		return models.Unknown("co_po_mapping is malformed")
	}

	cos := map[string]float64{}
	for _, co := range list {
		if v, ok := COScore(co); ok {
			cos[co.CO] = v
		} else {
			c.Note("%s has no usable attainment data", co.CO)
		}
	}

	var pos []string
	for _, m := range mappings {
		if !slices.Contains(pos, m.PO) {
			pos = append(pos, m.PO)
		}
	}
	slices.Sort(pos)

	var attained []float64
	for _, po := range pos {
		s := DirectPO(po, cos, mappings)
		if v, ok := s.Value(); ok {
			attained = append(attained, v)
			c.Note("%s direct attainment %.2f (%s)", po, v, l.thresholds.Status(s))
		} else {
			c.Note("%s: %s", po, s.Reason())
		}
	}
	if len(attained) == 0 {
		return models.Unknown("no PO has a non-zero mapping level sum")
	}
	return models.Known(metrics.Mean(attained))
}

func addScore(c *frameworks.Calc, name string, s models.Score, weight float64) {
	if v, ok := s.Value(); ok {
		c.Add(name, nil, v, weight)
		return
	}
	c.Missing(name, weight)
}
