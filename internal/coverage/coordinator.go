package coverage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/output"
	"github.com/ctestkit/aitestrunner/internal/project"
)

// staleReportPatterns are removed one by one when the report directory
// itself cannot be removed.
var staleReportPatterns = []string{".html", ".css", ".png", ".gcov"}

// Coordinator runs the coverage pipeline over an ordered list of providers.
type Coordinator struct {
	Providers []Provider
	// Out receives progress lines; nil discards them.
	Out *output.Writer
}

// Run cleans previous artifacts, selects the first provider whose Probe
// succeeds and generates the report. It never returns an error.
func (c *Coordinator) Run(ctx context.Context, req Request) Outcome {
	out := c.Out
	if out == nil {
		out = output.Discard()
	}

	c.clean(req, out)

	provider := c.selectProvider(ctx)
	if provider == nil {
		out.Warning("coverage reports not available: install lcov or gcovr for detailed coverage analysis")
		return Outcome{Tool: ToolNone, Status: StatusUnavailable}
	}
	out.Detail("Using %s for coverage generation", provider.Name())

	var outcome Outcome
	if req.PassedTests == 0 {
		out.Detail("No passing tests found - skipping coverage generation")
		outcome = placeholderOutcome(provider.Name(), StatusSkippedNoPassingTests, req, ReasonNoPassingTests)
	} else {
		out.Detail("Coverage will be generated from %d passing test function(s)", req.PassedTests)
		outcome = provider.Generate(ctx, req)
		outcome.Tool = provider.Name()
	}

	c.ensureArtifacts(&outcome, req)
	reportSteps(out, outcome)
	log.Debug().
		Str("tool", outcome.Tool).
		Str("status", string(outcome.Status)).
		Str("report", outcome.ReportPath).
		Msg("coverage: done")
	return outcome
}

func (c *Coordinator) selectProvider(ctx context.Context) Provider {
	for _, p := range c.Providers {
		if err := p.Probe(ctx); err != nil {
			log.Debug().Str("tool", p.Name()).Err(err).Msg("coverage: provider unavailable")
			continue
		}
		return p
	}
	return nil
}

// clean removes info files and the HTML report from a previous run.
func (c *Coordinator) clean(req Request, out *output.Writer) {
	for _, name := range []string{CaptureInfoFile, FilteredInfoFile, SourceInfoFile} {
		path := filepath.Join(req.BuildDir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("coverage: could not remove stale info file")
		}
	}

	if req.ReportDir == "" {
		return
	}
	err := os.RemoveAll(req.ReportDir)
	if err == nil {
		return
	}
	out.Warning("could not remove old coverage reports: %v", err)

	files, err := project.FindFiles(req.ReportDir, staleReportPatterns...)
	if err != nil {
		return
	}
	var result *multierror.Error
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		log.Warn().Err(err).Msg("coverage: stale report files left behind")
	}
}

// ensureArtifacts guarantees the index page and the info file exist for
// every outcome that has a provider.
func (c *Coordinator) ensureArtifacts(o *Outcome, req Request) {
	if o.Status == StatusUnavailable {
		return
	}

	if o.ReportPath == "" || !exists(o.ReportPath) {
		reason := o.Reason
		if reason == "" {
			reason = "Coverage report generation failed."
		}
		path, err := WritePlaceholder(req.ReportDir, "", reason)
		if err != nil {
			log.Warn().Err(err).Msg("coverage: could not write placeholder page")
			path = req.IndexPath()
		}
		o.ReportPath = path
	}

	if info := req.InfoPath(); info != "" {
		if !exists(info) {
			if err := writeInfoPlaceholder(info); err != nil {
				log.Warn().Err(err).Str("path", info).Msg("coverage: could not write placeholder info")
			}
		}
		o.InfoPath = info
	}
}

// placeholderOutcome writes the placeholder page and returns a skipped or
// failed outcome pointing at it.
func placeholderOutcome(tool string, status Status, req Request, reason string) Outcome {
	o := Outcome{Tool: tool, Status: status, Reason: reason}
	path, err := WritePlaceholder(req.ReportDir, "", reason)
	if err != nil {
		log.Warn().Err(err).Msg("coverage: could not write placeholder page")
		return o
	}
	o.ReportPath = path
	return o
}

func reportSteps(out *output.Writer, o Outcome) {
	for _, s := range o.Steps {
		switch {
		case s.Fallback:
			out.Detail("%s failed, %s", s.Name, s.Message)
		case !s.OK:
			out.Detail("%s failed: %s", s.Name, s.Message)
		}
	}

	switch o.Status {
	case StatusGenerated:
		out.Success("Coverage report generated: %s", filepath.Dir(o.ReportPath))
	case StatusSkippedNoInstrumentation:
		out.Detail("Skipping detailed coverage generation due to missing instrumentation (.gcda files)")
	case StatusFailed:
		out.Warning("coverage generation failed: %s", o.Reason)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
