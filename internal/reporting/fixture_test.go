package reporting

import "github.com/campusgrade/scorecore/internal/models"

func newTestEvaluation() *models.Evaluation {
	return &models.Evaluation{
		BatchID:   "inst-42",
		Framework: models.FrameworkNIRF,
		Order:     []string{"TLR", "RP", "PR"},
		Results: map[string]models.Result{
			"TLR": {
				ID:     "TLR",
				Name:   "Teaching, Learning & Resources",
				Score:  models.Known(59),
				Status: models.StatusComputed,
				Trace:  models.Trace{Formula: "0.3*SS + 0.3*FSR + 0.2*FRU + 0.2*LIB"},
			},
			"RP": {
				ID:     "RP",
				Name:   "Research & Professional Practice",
				Score:  models.Known(78.57),
				Status: models.StatusPartial,
				Trace:  models.Trace{Notes: []string{"discarded patents: evidence has no snippet"}},
			},
			"PR": {
				ID:     "PR",
				Name:   "Perception",
				Score:  models.Unknown("perception survey not provided"),
				Status: models.StatusNotComputed,
			},
		},
		Overall: models.OverallScore{
			Value:           models.Known(68.79),
			Included:        []string{"TLR", "RP"},
			Excluded:        []string{"PR"},
			OptionalMissing: []string{"PR"},
			FormulaUsed:     "mean of TLR, RP (PR excluded)",
			Spread:          9.79,
			IsComplete:      true,
		},
		Verdict:      models.Verdict{IsValid: true},
		Completeness: 75,
		Warnings:     []string{"academic year 2019-20 is older than three years"},
	}
}

func newInvalidEvaluation() *models.Evaluation {
	return &models.Evaluation{
		BatchID:   "inst-7",
		Framework: models.FrameworkAICTE,
		Results:   map[string]models.Result{},
		Overall: models.OverallScore{
			Value: models.Unknown("no criteria available"),
		},
		Verdict: models.Verdict{IsValid: false, Reason: "no usable extraction blocks"},
	}
}
