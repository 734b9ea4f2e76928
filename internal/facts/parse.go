package facts

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// placeholders are extraction artefacts that must never be read as data.
var placeholders = map[string]bool{
	"N/A":         true,
	"NA":          true,
	"TBD":         true,
	"TODO":        true,
	"PLACEHOLDER": true,
	"DUMMY":       true,
	"TEST":        true,
	"-":           true,
	"NULL":        true,
	"NONE":        true,
}

// unitSuffix matches trailing units the extractor leaves on numbers.
var unitSuffix = regexp.MustCompile(`(?i)\s*(%|sq\.?\s*m(etres|eters)?|sqm|m2|students|faculty|nos?\.?)$`)

// Scrub returns nil for placeholders, blank strings and non-finite numbers,
// and v unchanged otherwise.
func Scrub(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" || placeholders[strings.ToUpper(s)] {
			return nil
		}
		return s
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
	}
	return v
}

// ParseNumeric converts ints, floats and numeric strings such as "1,500",
// "72.5%" or "12000 sqm" to float64. Booleans are not numbers.
func ParseNumeric(v any) (float64, bool) {
	var f float64
	switch val := Scrub(v).(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case string:
		s := unitSuffix.ReplaceAllString(val, "")
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
