package site

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomePartial  BuildOutcome = "partial" // completed, but documents were skipped
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures high-level metrics about one site generation run.
type BuildReport struct {
	ID    string    `json:"id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	ScannedFiles     int `json:"scanned_files"`
	Posts            int `json:"posts"`
	SkippedDocuments int `json:"skipped_documents"`
	RenderedPages    int `json:"rendered_pages"`
	Tags             int `json:"tags"`

	StageDurations  map[string]time.Duration  `json:"stage_durations"`
	StageErrorKinds map[string]StageErrorKind `json:"stage_error_kinds,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`

	Outcome BuildOutcome `json:"outcome"`
}

func newBuildReport() *BuildReport {
	return &BuildReport{
		ID:              uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[string]StageErrorKind),
	}
}

func (r *BuildReport) recordWarning(stage string, se *StageError) {
	r.StageErrorKinds[stage] = se.Kind
	r.Warnings = append(r.Warnings, se.Error())
}

func (r *BuildReport) recordError(stage string, se *StageError) {
	r.StageErrorKinds[stage] = se.Kind
	r.Errors = append(r.Errors, se.Error())
}

// finish stamps the end time and derives the overall outcome.
func (r *BuildReport) finish() {
	r.End = time.Now()
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
		for _, kind := range r.StageErrorKinds {
			if kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
			}
		}
	case len(r.Warnings) > 0 || r.SkippedDocuments > 0:
		r.Outcome = OutcomePartial
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Persist writes the report as build-report.json inside the output
// directory. Best effort; generation output is valid without it.
func (r *BuildReport) Persist(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "build-report.json"), append(data, '\n'), 0o644)
}
