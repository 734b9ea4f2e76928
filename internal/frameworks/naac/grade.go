package naac

import "github.com/campusgrade/scorecore/internal/models"

// scale is the CGPA maximum.
const scale = 4.0

// AccreditationFloor is the lowest CGPA that earns accreditation.
const AccreditationFloor = 1.51

var bands = []struct {
	min    float64
	letter string
}{
	{3.51, "A++"},
	{3.26, "A+"},
	{3.01, "A"},
	{2.76, "B++"},
	{2.51, "B+"},
	{2.01, "B"},
	{1.51, "C"},
}

// GradeFor converts a 0-100 overall score to CGPA and letter grade. It
// returns nil when the score is unknown.
func GradeFor(overall models.Score) *models.Grade {
	v, ok := overall.Value()
	if !ok {
		return nil
	}
	cgpa := models.Round2(v / 100 * scale)
	g := &models.Grade{CGPA: cgpa, Letter: "D"}
	for _, b := range bands {
		if cgpa >= b.min {
			g.Letter = b.letter
			break
		}
	}
	g.Accredited = cgpa >= AccreditationFloor
	return g
}
