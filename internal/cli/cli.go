// Package cli provides the ai-test-runner command line.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ctestkit/aitestrunner/internal/config"
	"github.com/ctestkit/aitestrunner/internal/coverage"
	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/logging"
	"github.com/ctestkit/aitestrunner/internal/metrics"
	"github.com/ctestkit/aitestrunner/internal/output"
	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/runner"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
	"github.com/ctestkit/aitestrunner/internal/unity"
)

// Version is set at build time.
var Version = "dev"

var out = output.New()

// Options holds the parsed command line flags.
type Options struct {
	RepoPath    string
	Output      string
	Verbose     bool
	Quiet       bool
	ConfigPath  string
	LogFile     string
	MetricsFile string
	Timeout     string
}

// validateOptions checks flag combinations cobra cannot express.
func validateOptions(opts *Options) error {
	if opts.Quiet && opts.Verbose {
		return errors.Config("--quiet and --verbose are mutually exclusive")
	}
	if opts.Output == "" {
		return errors.Config("--output must not be empty")
	}
	if opts.Timeout != "" {
		if _, err := config.ParseDuration(opts.Timeout); err != nil {
			return errors.Configf("invalid --timeout value %q: %v", opts.Timeout, err)
		}
	}
	return nil
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, out, process.New())
}

// run is Run with injectable output and process runner.
func run(ctx context.Context, args []string, w *output.Writer, proc process.Runner) int {
	opts := &Options{}
	exitCode := errors.ExitSuccess

	root := newRootCmd(opts, func(cmd *cobra.Command) error {
		code, err := execute(cmd.Context(), opts, w, proc)
		exitCode = code
		return err
	})
	root.SetArgs(args)
	root.SetOut(w.Stdout())
	root.SetErr(w.Stderr())

	if err := root.ExecuteContext(ctx); err != nil {
		w.ErrorPrefix("%v", err)
		var re *errors.RunnerError
		if !errors.As(err, &re) {
			// flag parsing errors from cobra
			return errors.ExitConfigError
		}
		return re.ExitCode()
	}
	return exitCode
}

func newRootCmd(opts *Options, runE func(cmd *cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai-test-runner",
		Short: "Build, run and measure coverage of AI-generated C unit tests",
		Long: `ai-test-runner - build and run AI-generated C unit tests

Picks up the tests marked as compilable in tests/compilation_report,
builds them against the repository sources and the Unity framework with
CMake, runs every test executable, and writes per-test reports plus an
lcov or gcovr coverage report.

Exit status is 0 when every test function passed, 1 on test or build
failure, 2 on configuration errors and 3 when cmake is missing.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(cmd)
		},
	}
	cmd.SetVersionTemplate("ai-test-runner {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&opts.RepoPath, "repo-path", "r", ".", "path to the C repository")
	f.StringVarP(&opts.Output, "output", "o", "build", "build directory, relative to the repository")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "log every step and external command")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "print only failures and the summary")
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default: .ai-test-runner.{yaml,yml,toml,json} in the repository)")
	f.StringVar(&opts.LogFile, "log-file", "", "write JSON diagnostics to this file")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.Timeout, "timeout", "", "per-executable timeout, e.g. 30s (overrides config)")
	return cmd
}

// execute runs the pipeline and returns the exit code together with the
// error that caused a non-zero code, if any.
func execute(ctx context.Context, opts *Options, w *output.Writer, proc process.Runner) (int, error) {
	if err := validateOptions(opts); err != nil {
		return errors.ExitConfigError, err
	}
	w.SetQuiet(opts.Quiet)
	_, noColor := os.LookupEnv("NO_COLOR")
	if noColor {
		w.SetColor(false)
	}

	closer, err := logging.Setup(logging.Options{
		Verbose: opts.Verbose,
		File:    opts.LogFile,
		Console: w.Stderr(),
		NoColor: noColor,
	})
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}
	defer closer.Close()

	repo, err := project.ResolveRepo(opts.RepoPath)
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}

	if err := config.LoadDotEnv(repo); err != nil {
		w.Warning("%v", err)
	}
	resolved, err := config.Resolve(config.ResolveOptions{RepoPath: repo, Path: opts.ConfigPath})
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}
	for _, warning := range resolved.Warnings {
		w.Warning("%s", warning)
	}
	cfg := resolved.Config
	if opts.Timeout != "" {
		d, _ := config.ParseDuration(opts.Timeout)
		cfg.Tests.Timeout.Duration = d
	}

	resolver, err := toolchain.NewResolver(cfg.Tools)
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}
	cmake, err := resolver.Resolve(toolchain.CMake)
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}
	if err := toolchain.RequireOnPath(cmake); err != nil {
		printInstallHints(w)
		return errors.GetExitCode(err), err
	}

	layout, err := project.NewLayout(repo, opts.Output, cfg)
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}
	providers, err := coverage.NewProviders(cfg.Coverage, resolver, proc)
	if err != nil {
		return errors.ExitConfigError, errors.Config(err.Error())
	}

	r := runner.New(runner.Options{
		Layout:    layout,
		Config:    cfg,
		Process:   proc,
		CMake:     cmake.Binary,
		Providers: providers,
		Unity:     unity.Options{URL: cfg.Unity.URL, Retries: *cfg.Unity.Retries},
		Out:       w,
	})
	result, err := r.Run(ctx)
	if err != nil {
		return errors.GetExitCode(err), err
	}

	printRunSummary(w, layout, result)

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile, snapshot(result)); err != nil {
			w.Warning("%v", err)
		}
	}

	log.Debug().Bool("success", result.Success()).Msg("cli: done")
	if !result.Success() {
		return errors.ExitRuntimeError, nil
	}
	return errors.ExitSuccess, nil
}

func printInstallHints(w *output.Writer) {
	w.Hint("Please install build tools:")
	w.Hint("  Ubuntu/Debian: sudo apt-get install cmake build-essential")
	w.Hint("  macOS: brew install cmake")
	w.Hint("  Windows: Install CMake (includes Ninja generator)")
}

func snapshot(result *runner.Result) metrics.Snapshot {
	s := metrics.Snapshot{
		Summary:         result.Summary,
		CoverageStatus:  string(result.Coverage.Status),
		CoverageTool:    result.Coverage.Tool,
		CoveragePercent: -1,
		Success:         result.Success(),
	}
	if len(result.Coverage.Files) > 0 {
		s.CoveragePercent = coverage.Total(result.Coverage.Files).Percent
	}
	if result.Run != nil {
		s.Duration = result.Run.EndTime.Sub(result.Run.StartTime)
	}
	return s
}
