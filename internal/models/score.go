package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// UnknownToken is the JSON and display form of a score that could not be
// computed from evidenced data.
const UnknownToken = "unknown"

// Score is either a finite value in [0,100] or unknown with a reason.
// The zero value is unknown.
type Score struct {
	value  float64
	known  bool
	reason string
}

// Known returns a computed score. Values are clamped to [0,100] and rounded
// to two decimals; non-finite input yields an unknown score.
func Known(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unknown("non-finite value")
	}
	v = math.Max(0, math.Min(100, v))
	return Score{value: Round2(v), known: true}
}

// Unknown returns a score that carries only the reason it is missing.
func Unknown(reason string) Score {
	return Score{reason: reason}
}

// Value returns the score and whether it is known.
func (s Score) Value() (float64, bool) {
	return s.value, s.known
}

func (s Score) IsKnown() bool { return s.known }

// IsZero reports a known score of exactly zero.
func (s Score) IsZero() bool { return s.known && s.value == 0 }

// Reason is empty for known scores.
func (s Score) Reason() string { return s.reason }

func (s Score) String() string {
	if !s.known {
		return UnknownToken
	}
	return fmt.Sprintf("%.2f", s.value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.known {
		return json.Marshal(UnknownToken)
	}
	return json.Marshal(s.value)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Unknown("")
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var tok string
		if err := json.Unmarshal(data, &tok); err != nil {
			return err
		}
		if tok != UnknownToken {
			return fmt.Errorf("invalid score token %q", tok)
		}
		*s = Unknown("")
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid score: %w", err)
	}
	*s = Known(v)
	return nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
