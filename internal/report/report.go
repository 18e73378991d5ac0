// Package report writes per-executable text reports and the JSON run summary.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/model"
)

// ReportSuffix is appended to the executable name to form its report file.
const ReportSuffix = "_report.txt"

var (
	heavyRule = strings.Repeat("=", 60)
	rule      = strings.Repeat("-", 20)
	shortRule = strings.Repeat("-", 10)
)

// WriteTestReports removes the previous *_report.txt files in dir and writes
// one report per result. It returns the written paths in result order.
func WriteTestReports(dir string, results []model.TestRunResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	stale, err := filepath.Glob(filepath.Join(dir, "*"+ReportSuffix))
	if err != nil {
		return nil, err
	}
	var cleanup *multierror.Error
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			cleanup = multierror.Append(cleanup, err)
		}
	}
	if err := cleanup.ErrorOrNil(); err != nil {
		log.Warn().Err(err).Msg("report: could not remove old reports")
	}

	paths := make([]string, 0, len(results))
	for _, r := range results {
		path := filepath.Join(dir, r.Name+ReportSuffix)
		if err := writeTestReport(path, r); err != nil {
			return paths, fmt.Errorf("failed to write report for %s: %w", r.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTestReport(path string, r model.TestRunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	FormatTestReport(w, r)
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatTestReport renders the text report for one executable.
func FormatTestReport(w io.Writer, r model.TestRunResult) {
	status := "FAILED"
	if r.Success {
		status = "PASSED"
	}

	fmt.Fprintf(w, "%s\nTEST REPORT: %s\n%s\n\n", heavyRule, r.Name, heavyRule)

	fmt.Fprintf(w, "EXECUTION SUMMARY\n%s\n", rule)
	fmt.Fprintf(w, "Test Executable: %s\n", r.Name)
	fmt.Fprintf(w, "Exit Code: %d\n", r.ExitCode)
	fmt.Fprintf(w, "Overall Status: %s\n", status)
	fmt.Fprintf(w, "Individual Tests Run: %d\n", r.IndividualTotal)
	fmt.Fprintf(w, "Individual Tests Passed: %d\n", r.IndividualPassed)
	fmt.Fprintf(w, "Individual Tests Failed: %d\n\n", r.IndividualFailed)

	if r.Error != "" {
		fmt.Fprintf(w, "ERRORS\n%s\n%s\n\n", shortRule, r.Error)
	}

	fmt.Fprintf(w, "DETAILED OUTPUT\n%s\n", rule)
	if r.Stdout != "" {
		io.WriteString(w, r.Stdout)
	} else {
		io.WriteString(w, "(No output captured)\n")
	}
	fmt.Fprintf(w, "\n%s\n", heavyRule)
}
