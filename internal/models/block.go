package models

import "strings"

// Evidence is the provenance record a fact needs before it may be used in a
// calculation.
type Evidence struct {
	Snippet          string  `json:"snippet" yaml:"snippet" mapstructure:"snippet"`
	Page             int     `json:"page" yaml:"page" mapstructure:"page" validate:"gte=0"`
	SourceDocumentID string  `json:"source_document_id" yaml:"source_document_id" mapstructure:"source_document_id"`
	Confidence       float64 `json:"extraction_confidence" yaml:"extraction_confidence" mapstructure:"extraction_confidence" validate:"gte=0,lte=1"`
	BlockID          string  `json:"block_id,omitempty" yaml:"block_id,omitempty" mapstructure:"block_id"`
}

// IsEmpty reports whether e records neither a snippet nor a source.
func (e *Evidence) IsEmpty() bool {
	return e == nil || (strings.TrimSpace(e.Snippet) == "" && strings.TrimSpace(e.SourceDocumentID) == "")
}

// Fact is a single extracted data point. Value holds the parsed form
// (float64 for numbers); Raw keeps the representation it was parsed from.
type Fact struct {
	Field    string    `json:"field_name"`
	Value    any       `json:"value"`
	Raw      any       `json:"raw,omitempty"`
	Evidence *Evidence `json:"evidence,omitempty"`
}

// IsNull reports a fact without a usable value.
func (f Fact) IsNull() bool {
	return f.Value == nil
}

// Number returns the value as float64 when it is numeric.
func (f Fact) Number() (float64, bool) {
	v, ok := f.Value.(float64)
	return v, ok
}

// BlockFlags are quality markers set by the extraction stage.
type BlockFlags struct {
	IsOutdated   bool `json:"is_outdated" yaml:"is_outdated" mapstructure:"is_outdated"`
	IsLowQuality bool `json:"is_low_quality" yaml:"is_low_quality" mapstructure:"is_low_quality"`
	IsInvalid    bool `json:"is_invalid" yaml:"is_invalid" mapstructure:"is_invalid"`
}

// Block is one named category of extracted facts, e.g. "faculty_information".
type Block struct {
	ID               string              `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Type             string              `json:"block_type" yaml:"block_type" mapstructure:"block_type" validate:"required"`
	SourceDocumentID string              `json:"source_document_id,omitempty" yaml:"source_document_id,omitempty" mapstructure:"source_document_id"`
	Facts            map[string]any      `json:"facts" yaml:"facts" mapstructure:"facts"`
	Evidence         map[string]Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty" mapstructure:"evidence" validate:"omitempty,dive"`
	BlockEvidence    *Evidence           `json:"block_evidence,omitempty" yaml:"block_evidence,omitempty" mapstructure:"block_evidence" validate:"omitempty"`
	Confidence       float64             `json:"confidence" yaml:"confidence" mapstructure:"confidence" validate:"gte=0,lte=1"`
	Flags            BlockFlags          `json:"flags" yaml:"flags" mapstructure:"flags"`
}

// Usable reports whether the block may contribute facts.
func (b Block) Usable() bool {
	return !b.Flags.IsInvalid
}
