// Package evidence builds and queries the field-to-provenance map used to
// gate every fact before it reaches a formula.
package evidence

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/campusgrade/scorecore/internal/models"
)

// NumericSuffix marks a pre-parsed numeric sibling of a raw field.
const NumericSuffix = "_num"

const (
	defaultPage    = 1
	maxSnippetRune = 100
)

// Map is field name to first-seen evidence.
type Map map[string]models.Evidence

// BuildMap records, for every non-empty field of every block, the evidence
// of its first occurrence. Later duplicates never overwrite an entry.
// Pre-parsed "<name>_num" fields are recorded under <name>.
func BuildMap(blocks []models.Block) Map {
	m := Map{}
	for _, blk := range blocks {
		for _, field := range slices.Sorted(maps.Keys(blk.Facts)) {
			if IsEmptyValue(blk.Facts[field]) {
				continue
			}
			name := strings.TrimSuffix(field, NumericSuffix)
			if _, seen := m[name]; seen {
				continue
			}
			ev, ok := ForField(blk, field)
			if !ok {
				continue
			}
			m[name] = ev
		}
	}
	return m
}

// ForField returns the evidence a block holds for field. Per-field evidence
// wins over block-level evidence; missing page and source are filled from
// block metadata. ok is false when nothing at all is recorded.
func ForField(blk models.Block, field string) (models.Evidence, bool) {
	name := strings.TrimSuffix(field, NumericSuffix)
	var ev models.Evidence
	switch {
	case hasEvidence(blk.Evidence, field):
		ev = blk.Evidence[field]
	case hasEvidence(blk.Evidence, name):
		ev = blk.Evidence[name]
	case blk.BlockEvidence != nil:
		ev = *blk.BlockEvidence
	default:
		ev = models.Evidence{Confidence: blk.Confidence}
	}
	if ev.SourceDocumentID == "" {
		ev.SourceDocumentID = blk.SourceDocumentID
	}
	if ev.BlockID == "" {
		ev.BlockID = blk.ID
	}
	if ev.Page <= 0 {
		ev.Page = defaultPage
	}
	if ev.IsEmpty() {
		return models.Evidence{}, false
	}
	return ev, true
}

func hasEvidence(m map[string]models.Evidence, key string) bool {
	ev, ok := m[key]
	return ok && !ev.IsEmpty()
}

// Lookup resolves name through the default alias table.
func (m Map) Lookup(name string, aliases ...string) (*models.Evidence, bool) {
	return m.LookupIn(DefaultAliases, name, aliases...)
}

// LookupIn resolves name directly, then through the caller's aliases, then
// through table. It returns false only after every candidate misses.
func (m Map) LookupIn(table AliasTable, name string, aliases ...string) (*models.Evidence, bool) {
	for _, cand := range table.Candidates(name, aliases...) {
		if ev, ok := m[cand]; ok {
			return &ev, true
		}
	}
	return nil, false
}

// Validate passes trivially for a nil value. Otherwise the evidence must carry
// both a snippet and a source document id.
func Validate(value any, ev *models.Evidence) (bool, string) {
	if value == nil {
		return true, ""
	}
	if ev == nil {
		return false, "no evidence recorded"
	}
	if strings.TrimSpace(ev.Snippet) == "" {
		return false, "evidence has no snippet"
	}
	if strings.TrimSpace(ev.SourceDocumentID) == "" {
		return false, "evidence has no source document"
	}
	return true, ""
}

// Format renders evidence as "Page N in <source>: '<snippet>'".
func Format(ev *models.Evidence) string {
	if ev.IsEmpty() {
		return "No evidence available"
	}
	page := ev.Page
	if page <= 0 {
		page = defaultPage
	}
	src := ev.SourceDocumentID
	if src == "" {
		src = "unknown source"
	}
	snippet := ev.Snippet
	if r := []rune(snippet); len(r) > maxSnippetRune {
		snippet = string(r[:maxSnippetRune]) + "..."
	}
	return fmt.Sprintf("Page %d in %s: '%s'", page, src, snippet)
}

// IsEmptyValue reports values treated as absent: nil, blank strings, the
// literals "null" and "None", and empty collections.
func IsEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(val)
		return s == "" || s == "null" || s == "None"
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
