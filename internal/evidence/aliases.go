package evidence

// AliasTable maps a canonical field name to the ordered list of source names
// accepted for it. Resolution tries the canonical name first, then each
// alias in order.
type AliasTable map[string][]string

// DefaultAliases is the vocabulary shared by the aggregator and the tracker.
var DefaultAliases = AliasTable{
	"faculty_count":                       {"faculty", "total_faculty", "teaching_staff"},
	"student_count":                       {"students", "total_students", "total_intake", "admitted_students"},
	"built_up_area":                       {"area", "total_area", "building_area", "built_up_area_sqm"},
	"classrooms":                          {"classroom_count", "number_of_classrooms", "total_classrooms"},
	"library_area":                        {"library_size", "library_space", "library_area_sqm"},
	"digital_resources":                   {"digital_library_resources"},
	"hostel_capacity":                     {"hostel"},
	"placement_rate":                      {"placement_percentage", "placement_ratio"},
	"total_labs":                          {"lab_count", "labs", "laboratories"},
	"library_books":                       {"library_volumes"},
	"publications":                        {"research_publications"},
	"citations":                           {"citation_count"},
	"patents":                             {"patent_count"},
	"pass_percentage":                     {"pass_rate"},
	"phd_faculty":                         {"phd_faculty_count"},
	"faculty_development_activities":      {"fdp_count"},
	"higher_studies_count":                {"students_higher_studies"},
	"women_students":                      {"female_students"},
	"economically_disadvantaged_students": {"sc_st_students"},
	"financial_resources":                 {"budget"},
	"students_placed":                     {"total_placements"},
	"students_eligible":                   {"eligible_students"},
}

// Candidates returns the lookup order for name: name itself, the caller's
// extra names, then the table aliases. Duplicates are dropped.
func (t AliasTable) Candidates(name string, extra ...string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	add(name)
	for _, e := range extra {
		add(e)
	}
	for _, a := range t[name] {
		add(a)
	}
	return out
}

// Canonical maps a source field name to its canonical name. Names not in
// the table are returned unchanged.
func (t AliasTable) Canonical(name string) string {
	if _, ok := t[name]; ok {
		return name
	}
	for canonical, aliases := range t {
		for _, a := range aliases {
			if a == name {
				return canonical
			}
		}
	}
	return name
}
