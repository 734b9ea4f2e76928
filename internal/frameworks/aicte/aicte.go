// Package aicte implements the AICTE approval KPIs. Overall scores use the
// partial-average policy.
package aicte

import (
	"fmt"
	"math"

	"github.com/campusgrade/scorecore/internal/frameworks"
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// KPI ids.
const (
	FSRScore            = "fsr_score"
	InfrastructureScore = "infrastructure_score"
	PlacementIndex      = "placement_index"
	LabCompliance       = "lab_compliance_index"
)

// Faculty/student ratio bands.
const (
	fsrIdeal       = 15.0
	fsrLimit       = 20.0
	fsrSlope       = -8.0
	fsrLimitScore  = 60.0
	fsrPenaltyRate = 3.0
)

// Per-student infrastructure norms.
const (
	areaPerStudent    = 4.0
	studentsPerRoom   = 40.0
	libraryPerStudent = 0.5
	digitalTarget     = 500.0
	digitalFlagScore  = 50.0
	hostelShare       = 0.4
	studentsPerLab    = 50.0
	minimumLabs       = 5.0
)

// Infrastructure sub-component weights.
const (
	weightArea       = 0.40
	weightClassrooms = 0.25
	weightLibrary    = 0.15
	weightDigital    = 0.10
	weightHostel     = 0.10
)

var criteria = []frameworks.Criterion{
	{ID: FSRScore, Name: "FSR Score", Weight: 0.25},
	{ID: InfrastructureScore, Name: "Infrastructure Score", Weight: 0.25},
	{ID: PlacementIndex, Name: "Placement Index", Weight: 0.25},
	{ID: LabCompliance, Name: "Lab Compliance Index", Weight: 0.25},
}

// Library is the AICTE formula table.
type Library struct {
	table frameworks.Table
}

func New() *Library {
	l := &Library{}
	l.table = frameworks.Table{
		FSRScore:            fsrScore,
		InfrastructureScore: infrastructureScore,
		PlacementIndex:      placementIndex,
		LabCompliance:       labCompliance,
	}
	return l
}

func (l *Library) Framework() models.Framework { return models.FrameworkAICTE }

func (l *Library) Criteria() []frameworks.Criterion {
	return append([]frameworks.Criterion(nil), criteria...)
}

func (l *Library) Compute(id string, in *frameworks.Inputs) (models.Result, error) {
	return l.table.Run(models.FrameworkAICTE, criteria, id, in)
}

// RatioScore maps a student/faculty ratio to 0-100: 100 up to 15, linear
// down to 60 at 20, then 3 points per unit above 20, floored at 0.
func RatioScore(ratio float64) float64 {
	switch {
	case ratio <= fsrIdeal:
		return 100
	case ratio <= fsrLimit:
		return 100 + (ratio-fsrIdeal)*fsrSlope
	default:
		return math.Max(0, fsrLimitScore-fsrPenaltyRate*(ratio-fsrLimit))
	}
}

func fsrScore(c *frameworks.Calc) models.Result {
	c.Formula("FSR = students / faculty; 100 if FSR <= 15, 100 - 8*(FSR-15) if FSR <= 20, max(0, 60 - 3*(FSR-20)) otherwise")

	students, okS := c.Positive("student_count")
	faculty, okF := c.Positive("faculty_count")
	switch {
	case !okS && !okF:
		return c.Unknown("student_count and faculty_count have no evidenced values")
	case !okS:
		return c.Unknown("student_count has no evidenced value")
	case !okF:
		return c.Unknown("faculty_count has no evidenced value")
	}

	ratio, _ := frameworks.Ratio(students, faculty)
	c.Add("fsr", models.Round2(ratio), RatioScore(ratio), 1)
	return c.Known(RatioScore(ratio))
}

func infrastructureScore(c *frameworks.Calc) models.Result {
	c.Formula("0.40*Area + 0.25*Classrooms + 0.15*Library + 0.10*Digital + 0.10*Hostel, each capped at 100")

	students, ok := c.Positive("student_count")
	if !ok {
		return c.Unknown("student_count has no evidenced value")
	}

	if area, ok := c.Number("built_up_area"); ok {
		c.Add("area", area, frameworks.Normalize(area, students*areaPerStudent), weightArea)
	} else {
		c.Missing("area", weightArea)
	}

	if rooms, ok := c.Number("classrooms"); ok {
		required := math.Ceil(students / studentsPerRoom)
		c.Add("classrooms", rooms, frameworks.Normalize(rooms, required), weightClassrooms)
	} else {
		c.Missing("classrooms", weightClassrooms)
	}

	if lib, ok := c.Number("library_area"); ok {
		c.Add("library", lib, frameworks.Normalize(lib, students*libraryPerStudent), weightLibrary)
	} else {
		c.Missing("library", weightLibrary)
	}

	if digital, ok := c.Number("digital_resources"); ok {
		c.Add("digital", digital, frameworks.Normalize(digital, digitalTarget), weightDigital)
	} else if flag, ok := c.Value("has_digital_library", "digital_library_systems"); ok && frameworks.Truthy(flag) {
		c.Add("digital", flag, digitalFlagScore, weightDigital)
		c.Note("digital library present without a resource count")
	} else {
		c.Missing("digital", weightDigital)
	}

	if hostel, ok := c.Number("hostel_capacity"); ok {
		c.Add("hostel", hostel, frameworks.Normalize(hostel, students*hostelShare), weightHostel)
	} else {
		c.Missing("hostel", weightHostel)
	}

	return c.ZeroFilled()
}

func placementIndex(c *frameworks.Calc) models.Result {
	c.Formula("Placement % = placed / eligible * 100, capped at 100")

	if rate, ok := c.Number("placement_rate"); ok {
		c.Add("placement_rate", rate, metrics.Cap(rate), 1)
		return c.Known(rate)
	}

	placed, okP := c.Number("students_placed")
	if !okP {
		return c.Unknown("placement_rate and students_placed have no evidenced values")
	}
	eligible, okE := c.Number("students_eligible", "student_count")
	if !okE {
		return c.Unknown("students_eligible has no evidenced value")
	}
	pct, ok := frameworks.Ratio(placed, eligible)
	if !ok {
		return c.Unknown("students_eligible is zero")
	}
	c.Add("placement", fmt.Sprintf("%g/%g", placed, eligible), metrics.Cap(pct*100), 1)
	return c.Known(pct * 100)
}

func labCompliance(c *frameworks.Calc) models.Result {
	c.Formula("Lab Compliance = available labs / required labs * 100, capped at 100")

	labs, ok := c.Number("total_labs")
	if !ok {
		return c.Unknown("total_labs has no evidenced value")
	}
	if labs <= 0 {
		return c.Unknown("total_labs is zero; no lab data reported")
	}

	required, ok := c.Positive("required_labs")
	if !ok {
		if students, okS := c.Positive("student_count"); okS {
			required = math.Max(minimumLabs, math.Floor(students/studentsPerLab))
			c.Note("required labs derived from norm of one lab per %g students, minimum %g", studentsPerLab, minimumLabs)
		} else {
			required = minimumLabs
			c.Note("required labs defaulted to minimum norm of %g", minimumLabs)
		}
	}

	pct, _ := frameworks.Ratio(labs, required)
	c.Add("labs", fmt.Sprintf("%g/%g", labs, required), metrics.Cap(pct*100), 1)
	return c.Known(pct * 100)
}
