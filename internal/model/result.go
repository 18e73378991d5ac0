// Package model provides shared data types used across multiple internal packages.
// This package exists to break import cycles between runner, report and
// coverage, which all consume test results.
package model

import (
	"time"

	"github.com/ctestkit/aitestrunner/internal/testparser"
)

// TestRunResult is the outcome of one test executable. It is created when
// the executable finishes, times out or fails to start, and is not modified
// afterwards.
type TestRunResult struct {
	Name     string `json:"name"`
	ExitCode int    `json:"exit_code"`
	Success  bool   `json:"success"` // ExitCode == 0
	TimedOut bool   `json:"timed_out,omitempty"`
	Stdout   string `json:"-"`
	Stderr   string `json:"-"`
	// Error is the failure description shown in summaries: stderr, or a
	// synthetic message for timeouts and start failures.
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	IndividualTotal  int                     `json:"individual_total"`
	IndividualPassed int                     `json:"individual_passed"`
	IndividualFailed int                     `json:"individual_failed"`
	FailedTests      []testparser.FailedTest `json:"failed_tests,omitempty"`
}

// Summary aggregates a run's TestRunResults.
type Summary struct {
	Executables       int `json:"executables"`
	ExecutablesPassed int `json:"executables_passed"`
	ExecutablesFailed int `json:"executables_failed"`

	IndividualTotal  int `json:"individual_total"`
	IndividualPassed int `json:"individual_passed"`
	IndividualFailed int `json:"individual_failed"`
}

// HasIndividualCounts reports whether any assertion-level data was parsed.
func (s Summary) HasIndividualCounts() bool {
	return s.IndividualTotal > 0
}

// Success applies the run's exit rule: every individual test passed, or,
// without assertion-level data, every executable exited zero.
func (s Summary) Success() bool {
	if s.HasIndividualCounts() {
		return s.IndividualPassed == s.IndividualTotal
	}
	return s.ExecutablesPassed == s.Executables
}
