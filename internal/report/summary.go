package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ctestkit/aitestrunner/internal/coverage"
	"github.com/ctestkit/aitestrunner/internal/model"
)

// SummaryFileName is the JSON run summary written next to the text reports.
const SummaryFileName = "summary.json"

// Run is the machine-readable record of one pipeline run.
type Run struct {
	ID         string                `json:"id"`
	StartTime  time.Time             `json:"start_time"`
	EndTime    time.Time             `json:"end_time"`
	Duration   string                `json:"duration"`
	Repository string                `json:"repository"`
	BuildDir   string                `json:"build_dir"`
	Success    bool                  `json:"success"`
	Summary    model.Summary         `json:"summary"`
	Tests      []model.TestRunResult `json:"tests"`
	Coverage   *coverage.Outcome     `json:"coverage,omitempty"`
}

// NewRun creates a Run with a fresh ID.
func NewRun(start time.Time) *Run {
	return &Run{ID: uuid.NewString(), StartTime: start}
}

// Finish stamps the end time and duration.
func (r *Run) Finish(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime).Round(time.Millisecond).String()
}

// WriteSummary writes run as indented JSON to path, replacing it atomically.
func WriteSummary(path string, run *Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}
