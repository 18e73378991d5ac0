// Package runner drives one test run: discovery, staging, build, execution,
// reports and coverage.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/build"
	"github.com/ctestkit/aitestrunner/internal/config"
	"github.com/ctestkit/aitestrunner/internal/coverage"
	"github.com/ctestkit/aitestrunner/internal/deps"
	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/manifest"
	"github.com/ctestkit/aitestrunner/internal/model"
	"github.com/ctestkit/aitestrunner/internal/output"
	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/report"
	"github.com/ctestkit/aitestrunner/internal/testparser"
	"github.com/ctestkit/aitestrunner/internal/unity"
)

var out = output.New()

// Options wires the collaborators of a run. Zero values get defaults where
// one exists.
type Options struct {
	Layout project.Layout
	Config *config.Config

	// Process runs cmake, coverage tools and test executables.
	Process process.Runner
	// Analyzer reports the library files to stage. Defaults to the files
	// directly inside the layout's source directory.
	Analyzer deps.Analyzer
	Parsers  *testparser.Registry
	// CMake is the cmake executable.
	CMake     string
	Providers []coverage.Provider
	Unity     unity.Options
	Out       *output.Writer
}

// Result is the outcome of a completed run. Test failures are recorded here,
// not returned as errors.
type Result struct {
	Run         *report.Run
	Tests       []model.TestRunResult
	Summary     model.Summary
	Coverage    coverage.Outcome
	Missing     []project.MissingSource
	Targets     []manifest.Target
	Reports     []string
	SummaryPath string
}

// Success applies the exit rule to the run's summary.
func (r *Result) Success() bool {
	return r.Summary.Success()
}

// Runner executes the pipeline.
type Runner struct {
	opts Options
	out  *output.Writer
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Process == nil {
		opts.Process = process.New()
	}
	if opts.Analyzer == nil {
		opts.Analyzer = &deps.SourceDirAnalyzer{Dir: opts.Layout.Source}
	}
	if opts.Parsers == nil {
		opts.Parsers = testparser.NewRegistry()
	}
	w := opts.Out
	if w == nil {
		w = out
	}
	return &Runner{opts: opts, out: w}
}

// Run executes the pipeline. It returns an error only for conditions that
// abort the run: no compilable tests, a failed build, no executables or an
// unusable build directory.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	l := r.opts.Layout
	cfg := r.opts.Config
	run := report.NewRun(time.Now())
	run.Repository = l.Repo
	run.BuildDir = l.Build
	result := &Result{Run: run}

	r.out.Info("AI Test Runner")
	r.out.Detail("Repository: %s", l.Repo)
	r.out.Detail("Output dir: %s", l.Build)
	r.out.Info("")

	parser := r.opts.Parsers.Default()
	if cfg.Tests.Framework != "" {
		parser = r.opts.Parsers.GetParser(cfg.Tests.Framework)
	}
	if parser == nil {
		return nil, errors.Configf("no output parser for test framework %q", cfg.Tests.Framework)
	}

	tests, err := r.discover(result)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(l.Build, 0755); err != nil {
		return nil, errors.Environmentf("cannot create build directory %s: %v", l.Build, err)
	}

	if err := r.stage(ctx, result, tests); err != nil {
		return nil, err
	}

	r.out.Detail("Cleaning old coverage data...")
	removed, err := project.CleanInstrumentation(l)
	for _, f := range removed {
		r.out.Detail("Removed old coverage file: %s", filepath.Base(f))
	}
	if err != nil {
		r.out.Warning("could not remove old coverage data: %v", err)
	}

	r.out.Action("Building tests...")
	builder := &build.Builder{Runner: r.opts.Process, CMake: r.opts.CMake, ConfigureArgs: cfg.CMakeArgs()}
	if err := builder.Build(ctx, l); err != nil {
		r.printBuildOutput(err)
		return nil, err
	}
	r.out.Success("Build successful")

	r.out.Action("Running tests...")
	executables, err := FindExecutables(l.Build)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list test executables")
	}
	if len(executables) == 0 {
		return nil, errors.StepError(build.StepCompile, "no test executables found in "+l.Rel(l.Build), nil)
	}

	result.Tests, err = ExecuteTests(ctx, executables, ExecOptions{
		Runner:  r.opts.Process,
		Parser:  parser,
		Timeout: cfg.Tests.Timeout.Duration,
		Dir:     l.Build,
		Out:     r.out,
	})
	if err != nil {
		return nil, err
	}
	result.Summary = Summarize(result.Tests)

	r.out.Action("Generating individual test reports in %s...", l.Rel(l.Reports))
	result.Reports, err = report.WriteTestReports(l.Reports, result.Tests)
	for _, p := range result.Reports {
		r.out.Detail("Generated report: %s", filepath.Base(p))
	}
	if err != nil {
		r.out.Warning("%v", err)
	}

	r.out.Action("Generating coverage reports...")
	coordinator := &coverage.Coordinator{Providers: r.opts.Providers, Out: r.out}
	result.Coverage = coordinator.Run(ctx, coverage.Request{
		BuildDir:    l.Build,
		ReportDir:   l.Coverage,
		PassedTests: result.Summary.IndividualPassed,
	})
	r.printCoverageTable(result.Coverage.Files)

	run.Tests = result.Tests
	run.Summary = result.Summary
	run.Success = result.Success()
	run.Coverage = &result.Coverage
	run.Finish(time.Now())

	result.SummaryPath = filepath.Join(l.Reports, report.SummaryFileName)
	if err := report.WriteSummary(result.SummaryPath, run); err != nil {
		r.out.Warning("%v", err)
		result.SummaryPath = ""
	}

	log.Debug().
		Str("id", run.ID).
		Int("executables", result.Summary.Executables).
		Int("passed", result.Summary.IndividualPassed).
		Int("total", result.Summary.IndividualTotal).
		Str("coverage", string(result.Coverage.Status)).
		Msg("runner: run finished")
	return result, nil
}

// discover finds the compilable tests and reports markers without a source.
func (r *Runner) discover(result *Result) ([]project.CompilableTest, error) {
	l := r.opts.Layout
	tests, missing, err := project.DiscoverCompilableTests(l)
	markersMissing := errors.Is(err, project.ErrMarkersNotFound)
	if markersMissing {
		r.out.Failure("Verification report directory not found: %s", l.Rel(l.Markers))
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to discover compilable tests")
	}

	for _, t := range tests {
		r.out.Detail("Found compilable test: %s", filepath.Base(t.Source))
	}
	for _, m := range missing {
		if m.Suggestion != "" {
			r.out.Warning("Test file not found: %s (did you mean %s?)", filepath.Base(m.Expected), m.Suggestion)
		} else {
			r.out.Warning("Test file not found: %s", filepath.Base(m.Expected))
		}
	}
	result.Missing = missing

	switch {
	case markersMissing:
		return nil, errors.NotFound("verification report directory", l.Rel(l.Markers))
	case len(tests) == 0:
		return nil, errors.Newf("no compilable tests found in %s; run AI test generation first", l.Rel(l.Markers))
	}
	return tests, nil
}

// stage copies Unity, library sources and tests into the build tree and
// writes the manifest.
func (r *Runner) stage(ctx context.Context, result *Result, tests []project.CompilableTest) error {
	l := r.opts.Layout
	cfg := r.opts.Config

	staged, err := unity.Stage(ctx, l, r.opts.Unity)
	switch {
	case err != nil:
		r.out.Failure("Failed to set up Unity: %v", err)
		r.out.Warning("Unity framework not available, tests may not compile")
	case staged.Method == unity.Copied:
		r.out.Success("Copied Unity framework from reference")
	default:
		r.out.Success("Downloaded Unity framework")
	}

	sources, err := project.StageSources(ctx, l, r.opts.Analyzer)
	switch {
	case errors.Is(err, deps.ErrNoSourceDir):
		r.out.Warning("Source directory not found: %s", l.Rel(l.Source))
	case err != nil:
		return errors.Wrap(err, "failed to stage source files")
	}
	for _, name := range sources {
		r.out.Detail("Copied source: %s", name)
	}

	testFiles, err := project.StageTests(l, tests)
	if err != nil {
		return errors.Wrap(err, "failed to stage test files")
	}
	for _, name := range testFiles {
		r.out.Detail("Copied test: %s", name)
	}

	result.Targets, err = manifest.Write(l, testFiles, manifest.Options{
		CStandard:  string(cfg.Build.CStandard),
		Defines:    cfg.Build.Defines,
		TestPrefix: cfg.Tests.Prefix,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create CMakeLists.txt")
	}
	r.out.Info("Created CMakeLists.txt with %d test targets", len(result.Targets))
	return nil
}

// printBuildOutput shows the captured output of a failed cmake step.
func (r *Runner) printBuildOutput(err error) {
	var sf *build.StepFailure
	if !errors.As(err, &sf) {
		return
	}
	if sf.Step == build.StepConfigure {
		r.out.Failure("CMake configuration failed:")
	} else {
		r.out.Failure("Build failed:")
	}
	for _, stream := range []string{sf.Result.Stdout, sf.Result.Stderr} {
		if text := strings.TrimRight(stream, "\n"); text != "" {
			r.out.Failure("%s", text)
		}
	}
}

func (r *Runner) printCoverageTable(files []coverage.FileCoverage) {
	if len(files) == 0 {
		return
	}
	r.out.Section("Coverage Summary")
	rows := make([][]string, 0, len(files)+1)
	for _, f := range files {
		rows = append(rows, coverageRow(f))
	}
	rows = append(rows, coverageRow(coverage.Total(files)))
	r.out.Table([]string{"File", "Lines", "Coverage"}, rows)
}

func coverageRow(f coverage.FileCoverage) []string {
	return []string{f.File, fmt.Sprintf("%d/%d", f.LinesHit, f.LinesTotal), fmt.Sprintf("%.1f%%", f.Percent)}
}
