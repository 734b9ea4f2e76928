package models

// Status describes how much of a result's required input was evidenced.
type Status string

const (
	StatusComputed    Status = "computed"
	StatusPartial     Status = "partial"
	StatusNotComputed Status = "not_computed"
)

// Component is one weighted input of a criterion formula.
type Component struct {
	Name    string  `json:"name"`
	Input   any     `json:"input,omitempty"`
	Score   Score   `json:"score"`
	Weight  float64 `json:"weight"`
	Present bool    `json:"present"`
}

// EvidenceRef links a fact used by a formula to its provenance.
type EvidenceRef struct {
	Field    string   `json:"field"`
	Evidence Evidence `json:"evidence"`
}

// Trace records how a result was derived so reports can render it verbatim.
type Trace struct {
	Formula      string        `json:"formula"`
	Components   []Component   `json:"components,omitempty"`
	EvidenceRefs []EvidenceRef `json:"evidence_refs,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Notes        []string      `json:"notes,omitempty"`
}

// Result is the score of one criterion, KPI or parameter.
type Result struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Score  Score   `json:"score"`
	Weight float64 `json:"weight"`
	Trace  Trace   `json:"trace"`
	Status Status  `json:"status"`
}

// Grade is the letter grade derived from a cumulative grade point average.
type Grade struct {
	CGPA       float64 `json:"cgpa"`
	Letter     string  `json:"letter"`
	Accredited bool    `json:"accredited"`
}

// OverallScore is the framework-level aggregate for one batch.
type OverallScore struct {
	Value           Score    `json:"value"`
	Included        []string `json:"included"`
	Excluded        []string `json:"excluded"`
	Missing         []string `json:"missing,omitempty"`
	OptionalMissing []string `json:"optional_missing,omitempty"`
	FormulaUsed     string   `json:"formula_used"`
	// Spread is the population standard deviation of the scores that went
	// into Value. It is zero when Value is unknown.
	Spread          float64  `json:"spread"`
	IsComplete      bool     `json:"is_complete"`
	Grade           *Grade   `json:"grade,omitempty"`
}

// Verdict is the batch validity decision.
type Verdict struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// Evaluation is the full output of one engine invocation.
type Evaluation struct {
	BatchID      string            `json:"batch_id"`
	Framework    Framework         `json:"framework"`
	Results      map[string]Result `json:"results"`
	Order        []string          `json:"order"`
	Overall      OverallScore      `json:"overall"`
	Verdict      Verdict           `json:"verdict"`
	Completeness float64           `json:"completeness"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// Ordered returns results in criterion order.
func (e *Evaluation) Ordered() []Result {
	out := make([]Result, 0, len(e.Order))
	for _, id := range e.Order {
		if r, ok := e.Results[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
