package coverage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

// Info files written into the build directory by the lcov pipeline.
const (
	CaptureInfoFile  = "coverage.info"
	FilteredInfoFile = "coverage_filtered.info"
	SourceInfoFile   = "coverage_source.info"
)

// lcov 2.0 rejects unused patterns and empty results unless told otherwise;
// older versions do not know these categories.
const lcovErrorCategoriesVersion = "2.0"

// Lcov steps.
const (
	StepCapture = "lcov capture"
	StepRemove  = "lcov remove"
	StepExtract = "lcov extract"
	StepGenhtml = "genhtml"
	StepList    = "lcov list"
)

// Lcov generates coverage with lcov and genhtml:
// capture, remove, extract, render.
type Lcov struct {
	Runner  process.Runner
	Lcov    toolchain.Definition
	Genhtml toolchain.Definition
	// Remove globs are dropped from the capture (third-party and entry points).
	Remove []string
	// Extract globs select the project's own sources.
	Extract []string

	tool toolchain.Tool
}

// Name returns "lcov".
func (p *Lcov) Name() string { return toolchain.Lcov }

// Probe runs "lcov --version" and records the version.
func (p *Lcov) Probe(ctx context.Context) error {
	tool, err := toolchain.Probe(ctx, p.Runner, p.Lcov)
	if err != nil {
		return err
	}
	p.tool = tool
	return nil
}

// Generate runs the lcov pipeline. Filter and extract failures fall back to
// the previous info file; render failures are recorded but do not fail the
// outcome.
func (p *Lcov) Generate(ctx context.Context, req Request) Outcome {
	o := Outcome{Tool: p.Name()}

	gcda, err := project.FindFiles(req.BuildDir, project.GcdaSuffix)
	if err != nil || len(gcda) == 0 {
		if err := writeInfoPlaceholder(req.InfoPath()); err != nil {
			log.Warn().Err(err).Msg("coverage: could not write placeholder info")
		}
		return placeholderOutcome(p.Name(), StatusSkippedNoInstrumentation, req, ReasonNoInstrumentation)
	}
	log.Debug().Int("gcda", len(gcda)).Msg("coverage: instrumentation data found")

	// Capture.
	capture := []string{p.Lcov.Binary, "--capture", "--directory", ".", "--output-file", CaptureInfoFile}
	capture = append(capture, p.ignoreErrors("gcov", "unused")...)
	if msg, ok := p.run(ctx, req, capture); !ok {
		o.Steps = append(o.Steps, Step{Name: StepCapture, Message: msg})
		return p.failed(o, "lcov capture failed: "+msg)
	}
	size := fileSize(filepath.Join(req.BuildDir, CaptureInfoFile))
	if size <= 0 {
		o.Steps = append(o.Steps, Step{Name: StepCapture, Message: "no coverage data captured"})
		return p.failed(o, "coverage.info is empty or missing - no coverage data captured")
	}
	log.Debug().Str("size", humanize.Bytes(uint64(size))).Msg("coverage: coverage.info captured")
	o.Steps = append(o.Steps, Step{Name: StepCapture, OK: true})

	// Filter.
	o.Steps = append(o.Steps, p.narrow(ctx, req, StepRemove, "--remove", CaptureInfoFile, FilteredInfoFile,
		p.Remove, p.ignoreErrors("unused"), "using unfiltered coverage data"))

	// Extract.
	o.Steps = append(o.Steps, p.narrow(ctx, req, StepExtract, "--extract", FilteredInfoFile, SourceInfoFile,
		p.Extract, p.ignoreErrors("unused", "empty"), "using filtered coverage data"))

	if size := fileSize(req.InfoPath()); size <= 0 {
		return p.failed(o, "no source files found in coverage data")
	}
	o.InfoPath = req.InfoPath()

	// Render.
	genhtml := []string{p.Genhtml.Binary, SourceInfoFile, "--output-directory", req.ReportDir}
	if msg, ok := p.run(ctx, req, genhtml); ok {
		o.ReportPath = req.IndexPath()
		o.Steps = append(o.Steps, Step{Name: StepGenhtml, OK: true})
	} else {
		o.Reason = "HTML rendering failed: " + msg
		o.Steps = append(o.Steps, Step{Name: StepGenhtml, Message: msg})
	}

	res, err := p.Runner.Run(ctx, process.Command{
		Argv: []string{p.Lcov.Binary, "--list", SourceInfoFile},
		Dir:  req.BuildDir,
	})
	if err == nil && res.ExitCode == 0 {
		o.Files = ParseLcovList(res.Stdout)
		o.Steps = append(o.Steps, Step{Name: StepList, OK: true})
	} else {
		o.Steps = append(o.Steps, Step{Name: StepList, Message: describe(res, err)})
	}

	o.Status = StatusGenerated
	return o
}

// narrow runs "lcov <flag> in globs... --output-file out". When it fails, or
// there are no globs, in is copied to out.
func (p *Lcov) narrow(ctx context.Context, req Request, step, flag, in, out string, globs, extra []string, fallback string) Step {
	if len(globs) == 0 {
		if err := copyInfo(req.BuildDir, in, out); err != nil {
			return Step{Name: step, Message: err.Error()}
		}
		return Step{Name: step, OK: true}
	}

	argv := []string{p.Lcov.Binary, flag, in}
	argv = append(argv, globs...)
	argv = append(argv, "--output-file", out)
	argv = append(argv, extra...)

	msg, ok := p.run(ctx, req, argv)
	if ok {
		return Step{Name: step, OK: true}
	}
	log.Debug().Str("step", step).Str("error", msg).Msg("coverage: falling back")
	if err := copyInfo(req.BuildDir, in, out); err != nil {
		return Step{Name: step, Message: fmt.Sprintf("%s; fallback copy failed: %v", msg, err)}
	}
	return Step{Name: step, Fallback: true, Message: fallback}
}

// ignoreErrors returns the --ignore-errors flag for lcov 2.0 and later.
// Older versions only understand the "gcov" category.
func (p *Lcov) ignoreErrors(categories ...string) []string {
	if !p.tool.AtLeast(lcovErrorCategoriesVersion) {
		for _, c := range categories {
			if c == "gcov" {
				return []string{"--ignore-errors", "gcov"}
			}
		}
		return nil
	}
	return []string{"--ignore-errors", strings.Join(categories, ",")}
}

func (p *Lcov) run(ctx context.Context, req Request, argv []string) (string, bool) {
	res, err := p.Runner.Run(ctx, process.Command{Argv: argv, Dir: req.BuildDir})
	if err != nil || res.ExitCode != 0 {
		return describe(res, err), false
	}
	return "", true
}

func (p *Lcov) failed(o Outcome, reason string) Outcome {
	o.Status = StatusFailed
	o.Reason = reason
	return o
}

// describe summarises why a tool invocation failed.
func describe(res process.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		return msg
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}

func copyInfo(dir, from, to string) error {
	in, err := os.Open(filepath.Join(dir, from))
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(dir, to))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fileSize returns the size of path, or -1 if it does not exist.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}
