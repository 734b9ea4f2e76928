package guard

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/campusgrade/scorecore/internal/facts"
)

// renewalWindow is how many years back a renewal application may report.
const renewalWindow = 2

var percentFields = []string{
	"placement_rate",
	"pass_percentage",
	"graduation_rate",
	"student_progression_rate",
}

var areaFields = []string{"built_up_area", "library_area"}

// SanityCheck returns human-readable warnings for implausible fact
// combinations. It never rejects a fact.
func SanityCheck(s facts.Set) []string {
	var warnings []string

	students, okS := s.Number("student_count")
	faculty, okF := s.Number("faculty_count")
	if okS && okF && students < faculty {
		warnings = append(warnings, fmt.Sprintf("student_count (%g) is lower than faculty_count (%g)", students, faculty))
	}

	placed, okP := s.Number("students_placed")
	eligible, okE := s.Number("students_eligible")
	if okP && okE && placed > eligible {
		warnings = append(warnings, fmt.Sprintf("students_placed (%g) exceeds students_eligible (%g)", placed, eligible))
	}

	for _, f := range areaFields {
		if v, ok := s.Number(f); ok && v <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s must be positive, got %g", f, v))
		}
	}
	for _, f := range percentFields {
		if v, ok := s.Number(f); ok && (v < 0 || v > 100) {
			warnings = append(warnings, fmt.Sprintf("%s is outside 0-100: %g", f, v))
		}
	}
	return warnings
}

var yearPattern = regexp.MustCompile(`^\s*(\d{4})(?:\s*[-/]\s*\d{2,4})?\s*$`)

// ValidateYear checks the academic year against now. A renewal may report up
// to two years back; a new institution must report the current year or
// later. Years look like "2024" or "2024-25". An empty year passes.
func ValidateYear(year string, isNew bool, now time.Time) (bool, string) {
	if year == "" {
		return true, ""
	}
	m := yearPattern.FindStringSubmatch(year)
	if m == nil {
		return false, fmt.Sprintf("academic year %q is not in YYYY or YYYY-YY form", year)
	}
	start, _ := strconv.Atoi(m[1])
	current := now.Year()
	if isNew && start < current {
		return false, fmt.Sprintf("new institution must report academic year %d or later, got %d", current, start)
	}
	if !isNew && start < current-renewalWindow {
		return false, fmt.Sprintf("renewal academic year %d is older than %d", start, current-renewalWindow)
	}
	return true, ""
}
