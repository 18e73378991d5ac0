package cli

import (
	"fmt"
	"strings"

	"github.com/ctestkit/aitestrunner/internal/coverage"
	"github.com/ctestkit/aitestrunner/internal/output"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/runner"
)

// printRunSummary prints the end-of-run summary block and the final line.
func printRunSummary(w *output.Writer, l project.Layout, res *runner.Result) {
	s := res.Summary

	w.SummaryHeader("TEST EXECUTION SUMMARY")

	w.SummaryItem("Test executables run", fmt.Sprintf("%d", s.Executables))
	w.SummaryPassed("Test executables passed", fmt.Sprintf("%d", s.ExecutablesPassed))
	if s.ExecutablesFailed > 0 {
		w.SummaryFailed("Test executables failed", fmt.Sprintf("%d", s.ExecutablesFailed))
	} else {
		w.SummaryItem("Test executables failed", "0")
	}

	if s.HasIndividualCounts() {
		w.Println("")
		w.SummaryItem("Individual test functions run", fmt.Sprintf("%d", s.IndividualTotal))
		w.SummaryPassed("Individual test functions passed", fmt.Sprintf("%d", s.IndividualPassed))
		if s.IndividualFailed > 0 {
			w.SummaryFailed("Individual test functions failed", fmt.Sprintf("%d", s.IndividualFailed))
		} else {
			w.SummaryItem("Individual test functions failed", "0")
		}
	}

	if s.ExecutablesFailed > 0 {
		w.Println("")
		w.SummarySectionLabel("Failed test executables:")
		for _, t := range res.Tests {
			if t.Success {
				continue
			}
			w.SummaryFailed("  "+t.Name, firstLine(t.Error))
			for _, ft := range t.FailedTests {
				w.SummaryFailed("    "+ft.Name, ft.Reason)
			}
		}
	}

	w.Println("")
	w.SummaryItem("Build directory", l.Rel(l.Build))
	w.SummaryItem("Test reports", l.Rel(l.Reports))
	switch {
	case res.Coverage.Status == coverage.StatusGenerated:
		w.SummaryItem("Coverage report", l.Rel(res.Coverage.ReportPath))
		if len(res.Coverage.Files) > 0 {
			w.SummaryItem("Line coverage", fmt.Sprintf("%.1f%%", coverage.Total(res.Coverage.Files).Percent))
		}
	case res.Coverage.Status != "" && res.Coverage.ReportPath == "":
		w.SummaryItem("Coverage report", res.Coverage.Status.Label())
	case res.Coverage.Status != "":
		w.SummaryItem("Coverage report", fmt.Sprintf("%s (%s)", l.Rel(res.Coverage.ReportPath), res.Coverage.Status.Label()))
	}

	if s.HasIndividualCounts() {
		if res.Success() {
			w.FinalSuccess("COMPLETED: %d/%d individual test functions passed", s.IndividualPassed, s.IndividualTotal)
		} else {
			w.FinalFailure("COMPLETED: %d/%d individual test functions passed", s.IndividualPassed, s.IndividualTotal)
		}
		return
	}
	if res.Success() {
		w.FinalSuccess("COMPLETED: %d/%d test executables passed", s.ExecutablesPassed, s.Executables)
	} else {
		w.FinalFailure("COMPLETED: %d/%d test executables passed", s.ExecutablesPassed, s.Executables)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
