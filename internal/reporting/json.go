package reporting

import (
	"encoding/json"
	"io"
	"time"

	"github.com/campusgrade/scorecore/internal/models"
)

// Envelope wraps the evaluations of one CLI run.
type Envelope struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Evaluations []*models.Evaluation `json:"evaluations"`
	Errors      []FileError          `json:"errors,omitempty"`
}

// FileError records an input that could not be evaluated.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// WriteJSON encodes env as indented JSON.
func WriteJSON(w io.Writer, env Envelope) error {
	if env.Evaluations == nil {
		env.Evaluations = []*models.Evaluation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
