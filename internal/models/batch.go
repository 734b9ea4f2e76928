package models

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FlagPerceptionSurvey is the upstream flag that enables perception-style
// parameters. It is set only when the survey document was uploaded.
const FlagPerceptionSurvey = "perception_survey_provided"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Request is the input contract handed to the engine by the pipeline.
type Request struct {
	BatchID          string          `json:"batch_id" yaml:"batch_id" mapstructure:"batch_id" validate:"required"`
	Framework        Framework       `json:"framework" yaml:"framework" mapstructure:"framework" validate:"required,oneof=A B C D"`
	AcademicYear     string          `json:"academic_year,omitempty" yaml:"academic_year,omitempty" mapstructure:"academic_year"`
	IsNewInstitution bool            `json:"is_new_institution,omitempty" yaml:"is_new_institution,omitempty" mapstructure:"is_new_institution"`
	UpstreamFlags    map[string]bool `json:"upstream_flags,omitempty" yaml:"upstream_flags,omitempty" mapstructure:"upstream_flags"`
	ExtractionBlocks []Block         `json:"extraction_blocks" yaml:"extraction_blocks" mapstructure:"extraction_blocks" validate:"dive"`
}

// Validate checks the structural constraints of the request.
func (r *Request) Validate() error {
	if err := structValidator().Struct(r); err != nil {
		return fmt.Errorf("invalid request %q: %w", r.BatchID, err)
	}
	return nil
}

// Batch builds the evaluation unit for r using the given blocks.
func (r *Request) Batch(blocks []Block) *Batch {
	return &Batch{
		ID:               r.BatchID,
		Framework:        r.Framework,
		AcademicYear:     r.AcademicYear,
		IsNewInstitution: r.IsNewInstitution,
		UpstreamFlags:    r.UpstreamFlags,
		Blocks:           blocks,
	}
}

// Batch is one institution/department/year/framework evaluation.
// Valid is the only field the engine writes.
type Batch struct {
	ID               string          `json:"batch_id"`
	Framework        Framework       `json:"framework"`
	AcademicYear     string          `json:"academic_year,omitempty"`
	IsNewInstitution bool            `json:"is_new_institution,omitempty"`
	UpstreamFlags    map[string]bool `json:"upstream_flags,omitempty"`
	Blocks           []Block         `json:"extraction_blocks"`
	Valid            bool            `json:"validity"`
}

// Flag returns the named upstream flag; unset flags are false.
func (b *Batch) Flag(name string) bool {
	return b.UpstreamFlags[name]
}

// UsableBlocks returns the blocks not flagged invalid, in input order.
func (b *Batch) UsableBlocks() []Block {
	var out []Block
	for _, blk := range b.Blocks {
		if blk.Usable() {
			out = append(out, blk)
		}
	}
	return out
}
