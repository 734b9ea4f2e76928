package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFramework is returned when a framework tag does not name one of
// the four supported accreditation frameworks.
var ErrUnknownFramework = errors.New("unknown framework")

// Framework identifies an accreditation rule set.
type Framework string

const (
	FrameworkAICTE Framework = "A"
	FrameworkNBA   Framework = "B"
	FrameworkNAAC  Framework = "C"
	FrameworkNIRF  Framework = "D"
)

var frameworkNames = map[Framework]string{
	FrameworkAICTE: "AICTE",
	FrameworkNBA:   "NBA",
	FrameworkNAAC:  "NAAC",
	FrameworkNIRF:  "NIRF",
}

// Frameworks returns every supported framework in tag order.
func Frameworks() []Framework {
	return []Framework{FrameworkAICTE, FrameworkNBA, FrameworkNAAC, FrameworkNIRF}
}

// ParseFramework accepts either the single-letter tag (A, B, C, D) or the
// framework name (aicte, nba, naac, nirf), case-insensitively.
func ParseFramework(s string) (Framework, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for tag, name := range frameworkNames {
		if v == string(tag) || v == name {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFramework, s)
}

// Name returns the display name, e.g. "NAAC".
func (f Framework) Name() string {
	if n, ok := frameworkNames[f]; ok {
		return n
	}
	return string(f)
}

func (f Framework) Valid() bool {
	_, ok := frameworkNames[f]
	return ok
}

// UnmarshalText lets decoders accept both tags and names.
func (f *Framework) UnmarshalText(text []byte) error {
	parsed, err := ParseFramework(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Framework) String() string {
	return string(f)
}
