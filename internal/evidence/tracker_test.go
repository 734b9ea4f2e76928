package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrade/scorecore/internal/models"
)

func TestBuildMapFirstOccurrenceWins(t *testing.T) {
	blocks := []models.Block{
		{
			ID: "b1", Type: "faculty_information", SourceDocumentID: "doc-a",
			Facts:    map[string]any{"faculty_count": 100, "student_count": nil},
			Evidence: map[string]models.Evidence{"faculty_count": {Snippet: "100 faculty", Page: 3}},
		},
		{
			ID: "b2", Type: "faculty_information", SourceDocumentID: "doc-b",
			Facts:         map[string]any{"faculty_count": 120, "student_count_num": 1500},
			BlockEvidence: &models.Evidence{Snippet: "intake table", Page: 7},
		},
	}
	m := BuildMap(blocks)

	fc := m["faculty_count"]
	assert.Equal(t, "100 faculty", fc.Snippet)
	assert.Equal(t, "doc-a", fc.SourceDocumentID)
	assert.Equal(t, "b1", fc.BlockID)

	sc, ok := m["student_count"]
	require.True(t, ok, "pre-parsed field recorded under its base name")
	assert.Equal(t, "doc-b", sc.SourceDocumentID)
	assert.Equal(t, 7, sc.Page)
}

func TestBuildMapNeverReturnsEmptyRecords(t *testing.T) {
	blocks := []models.Block{
		{ID: "b1", Type: "x", Facts: map[string]any{"a": 1, "b": "None", "c": []any{}}},
		{ID: "b2", Type: "y", SourceDocumentID: "doc", Facts: map[string]any{"d": "text", "e": 0}},
	}
	m := BuildMap(blocks)
	for field, ev := range m {
		assert.False(t, ev.IsEmpty(), "field %s has empty evidence", field)
	}
	assert.NotContains(t, m, "a")
	assert.NotContains(t, m, "b")
	assert.Contains(t, m, "d")
	assert.Contains(t, m, "e")
	assert.Equal(t, 1, m["d"].Page)
}

func TestLookupThroughAliases(t *testing.T) {
	m := Map{"total_faculty": {Snippet: "s", SourceDocumentID: "d"}}

	ev, ok := m.Lookup("faculty_count")
	require.True(t, ok)
	assert.Equal(t, "s", ev.Snippet)

	_, ok = m.Lookup("student_count")
	assert.False(t, ok)

	ev, ok = m.LookupIn(AliasTable{}, "staff", "total_faculty")
	require.True(t, ok)
	assert.Equal(t, "d", ev.SourceDocumentID)
}

func TestCandidatesAndCanonical(t *testing.T) {
	got := DefaultAliases.Candidates("faculty_count", "faculty", "staff")
	assert.Equal(t, []string{"faculty_count", "faculty", "staff", "total_faculty", "teaching_staff"}, got)

	assert.Equal(t, "student_count", DefaultAliases.Canonical("total_intake"))
	assert.Equal(t, "student_count", DefaultAliases.Canonical("student_count"))
	assert.Equal(t, "unlisted", DefaultAliases.Canonical("unlisted"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		ev    *models.Evidence
		ok    bool
		why   string
	}{
		{"nil value passes", nil, nil, true, ""},
		{"no evidence", 10, nil, false, "no evidence recorded"},
		{"no snippet", 10, &models.Evidence{SourceDocumentID: "d"}, false, "evidence has no snippet"},
		{"no source", 10, &models.Evidence{Snippet: "s"}, false, "evidence has no source document"},
		{"complete", 10, &models.Evidence{Snippet: "s", SourceDocumentID: "d"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, why := Validate(tt.value, tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.why, why)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "No evidence available", Format(nil))
	assert.Equal(t, "No evidence available", Format(&models.Evidence{Page: 2}))
	assert.Equal(t, "Page 4 in ssr.pdf: 'Table 3.1'", Format(&models.Evidence{Snippet: "Table 3.1", Page: 4, SourceDocumentID: "ssr.pdf"}))
	assert.Equal(t, "Page 1 in unknown source: 'x'", Format(&models.Evidence{Snippet: "x"}))

	long := strings.Repeat("é", 150)
	got := Format(&models.Evidence{Snippet: long, Page: 1, SourceDocumentID: "d"})
	assert.Equal(t, "Page 1 in d: '"+strings.Repeat("é", 100)+"...'", got)
}
