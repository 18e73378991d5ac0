package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/model"
	"github.com/ctestkit/aitestrunner/internal/output"
	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/testparser"
)

// TimeoutMessage is the error recorded for an executable that exceeded its timeout.
const TimeoutMessage = "Test timed out"

// FindExecutables returns the test executables directly inside dir: regular
// files whose name contains "test", with no extension or ".exe", that are
// not CTest artifacts and are executable. Results are sorted by name.
func FindExecutables(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read build directory: %w", err)
	}

	var found []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.Contains(name, "test") || strings.Contains(name, "CTest") {
			continue
		}
		if ext := filepath.Ext(name); ext != "" && ext != ".exe" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !isExecutable(info) {
			log.Debug().Str("file", name).Msg("runner: skipping non-executable file")
			continue
		}
		found = append(found, filepath.Join(dir, name))
	}
	sort.Strings(found)
	return found, nil
}

func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(info.Name()), ".exe")
	}
	return info.Mode().Perm()&0111 != 0
}

// ExecOptions configures ExecuteTests.
type ExecOptions struct {
	Runner  process.Runner
	Parser  testparser.Parser
	Timeout time.Duration
	// Dir is the working directory of every executable.
	Dir string
	Out *output.Writer
}

// ExecuteTests runs each executable in order, with no arguments, and
// returns one result per executable. A failing, crashing or timed-out
// executable never stops the ones after it. Cancelling ctx stops the loop
// before the next executable starts.
func ExecuteTests(ctx context.Context, executables []string, opts ExecOptions) ([]model.TestRunResult, error) {
	w := opts.Out
	if w == nil {
		w = out
	}

	results := make([]model.TestRunResult, 0, len(executables))
	for _, exe := range executables {
		// Early exit if context is canceled before starting the next executable
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := filepath.Base(exe)
		w.TestStart(name)
		result := executeOne(ctx, exe, opts)
		results = append(results, result)

		switch {
		case result.TimedOut:
			w.TestFailed(name, "timed out")
		case result.Success && result.IndividualTotal > 0:
			w.TestPassed(name, fmt.Sprintf("%d/%d tests passed", result.IndividualPassed, result.IndividualTotal))
		case result.Success:
			w.TestPassed(name, fmt.Sprintf("exit code: %d", result.ExitCode))
		case result.IndividualTotal > 0:
			w.TestFailed(name, fmt.Sprintf("%d/%d tests passed", result.IndividualPassed, result.IndividualTotal))
		default:
			w.TestFailed(name, fmt.Sprintf("exit code: %d", result.ExitCode))
		}
	}
	return results, nil
}

func executeOne(ctx context.Context, exe string, opts ExecOptions) model.TestRunResult {
	name := filepath.Base(exe)
	res, err := opts.Runner.Run(ctx, process.Command{
		Argv:    []string{exe},
		Dir:     opts.Dir,
		Timeout: opts.Timeout,
	})

	result := model.TestRunResult{
		Name:     name,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		Duration: res.Duration,
	}

	switch {
	case errors.Is(err, process.ErrTimeout) || res.TimedOut:
		result.ExitCode = -1
		result.TimedOut = true
		result.Error = TimeoutMessage
		log.Debug().Str("test", name).Dur("timeout", opts.Timeout).Msg("runner: timed out")
		return result
	case err != nil:
		result.ExitCode = -1
		result.Error = err.Error()
		log.Debug().Str("test", name).Err(err).Msg("runner: could not run executable")
		return result
	}

	result.Success = res.ExitCode == 0
	result.Error = strings.TrimRight(res.Stderr, "\n")

	if opts.Parser != nil {
		counts := opts.Parser.Parse(res.Stdout)
		result.IndividualTotal = counts.Total
		result.IndividualPassed = counts.Passed
		result.IndividualFailed = counts.Failed
		result.FailedTests = counts.FailedTests
	}
	return result
}

// Summarize aggregates results into run totals.
func Summarize(results []model.TestRunResult) model.Summary {
	var s model.Summary
	for _, r := range results {
		s.Executables++
		if r.Success {
			s.ExecutablesPassed++
		} else {
			s.ExecutablesFailed++
		}
		s.IndividualTotal += r.IndividualTotal
		s.IndividualPassed += r.IndividualPassed
		s.IndividualFailed += r.IndividualFailed
	}
	return s
}
