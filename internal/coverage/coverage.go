// Package coverage turns the instrumentation data left by test executables
// into a coverage report.
//
// The Coordinator picks the first available Provider (lcov, then gcovr by
// default), checks that there is anything to measure, and lets the provider
// generate the report. It never returns an error: every outcome is a Status,
// and every outcome except StatusUnavailable leaves an index.html behind,
// which is a placeholder page when no real report could be produced.
package coverage

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the terminal state of a coverage run.
type Status string

// Coverage statuses.
const (
	StatusUnavailable              Status = "unavailable"
	StatusSkippedNoPassingTests    Status = "skipped-no-passing-tests"
	StatusSkippedNoInstrumentation Status = "skipped-no-instrumentation-data"
	StatusGenerated                Status = "generated"
	StatusFailed                   Status = "failed"
)

// ToolNone is the Outcome tool when no provider is available.
const ToolNone = "none"

var titleCaser = cases.Title(language.English)

// Label returns the status as a title-cased phrase, e.g. "Skipped No Passing Tests".
func (s Status) Label() string {
	return titleCaser.String(strings.ReplaceAll(string(s), "-", " "))
}

// Soft reports whether the status counts as success for downstream
// automation. Skips are soft successes; unavailable and failed are not.
func (s Status) Soft() bool {
	switch s {
	case StatusGenerated, StatusSkippedNoPassingTests, StatusSkippedNoInstrumentation:
		return true
	default:
		return false
	}
}

// Request describes one coverage run.
type Request struct {
	// BuildDir holds the instrumented binaries and their .gcda/.gcno files.
	// All tool invocations run there.
	BuildDir string
	// ReportDir receives the HTML report.
	ReportDir string
	// PassedTests is the number of individually passed test functions across
	// all executables.
	PassedTests int
}

// IndexPath returns the HTML entry page of the report.
func (r Request) IndexPath() string {
	return joinPath(r.ReportDir, indexFileName)
}

// InfoPath returns the machine-readable coverage file left for downstream tools.
func (r Request) InfoPath() string {
	return joinPath(r.BuildDir, SourceInfoFile)
}

// Step records one tool invocation inside a provider.
type Step struct {
	Name     string
	OK       bool
	Fallback bool   // a less-processed artifact was used instead
	Message  string // failure detail or fallback description
}

// Outcome is the result of a coverage run.
type Outcome struct {
	Tool       string `json:"tool"`
	Status     Status `json:"status"`
	ReportPath string `json:"report_path,omitempty"`
	InfoPath   string `json:"info_path,omitempty"`
	// Reason explains skipped and failed outcomes.
	Reason string         `json:"reason,omitempty"`
	Files  []FileCoverage `json:"files,omitempty"`
	Steps  []Step         `json:"-"`
}

// Provider generates coverage with one external tool.
type Provider interface {
	// Name identifies the provider, e.g. "lcov".
	Name() string
	// Probe reports whether the tool can run.
	Probe(ctx context.Context) error
	// Generate produces the report. It must leave an index.html in
	// req.ReportDir for every status other than StatusUnavailable.
	Generate(ctx context.Context, req Request) Outcome
}
