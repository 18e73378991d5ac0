package coverage

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

// Gcovr steps.
const (
	StepGcovrHTML    = "gcovr html"
	StepGcovrSummary = "gcovr summary"
)

// Gcovr generates coverage with a single gcovr HTML run plus a text summary.
type Gcovr struct {
	Runner process.Runner
	Gcovr  toolchain.Definition
	// Filter keeps only paths under this prefix, relative to the build dir.
	Filter  string
	Exclude []string
}

// Name returns "gcovr".
func (p *Gcovr) Name() string { return toolchain.Gcovr }

// Probe runs "gcovr --version".
func (p *Gcovr) Probe(ctx context.Context) error {
	_, err := toolchain.Probe(ctx, p.Runner, p.Gcovr)
	return err
}

// Generate renders the HTML report and parses the console summary.
// gcovr reads .gcda files itself, so there is no separate instrumentation
// check.
func (p *Gcovr) Generate(ctx context.Context, req Request) Outcome {
	o := Outcome{Tool: p.Name()}

	argv := []string{p.Gcovr.Binary, "--html", "--html-details", "--output", req.IndexPath()}
	argv = append(argv, p.filterArgs()...)
	res, err := p.Runner.Run(ctx, process.Command{Argv: argv, Dir: req.BuildDir})
	if err != nil || res.ExitCode != 0 {
		msg := describe(res, err)
		o.Steps = append(o.Steps, Step{Name: StepGcovrHTML, Message: msg})
		o.Status = StatusFailed
		o.Reason = "gcovr failed: " + msg
		return o
	}
	o.Steps = append(o.Steps, Step{Name: StepGcovrHTML, OK: true})
	o.ReportPath = req.IndexPath()

	argv = append([]string{p.Gcovr.Binary}, p.filterArgs()...)
	res, err = p.Runner.Run(ctx, process.Command{Argv: argv, Dir: req.BuildDir})
	if err == nil && res.ExitCode == 0 {
		o.Files = ParseGcovrSummary(res.Stdout)
		o.Steps = append(o.Steps, Step{Name: StepGcovrSummary, OK: true})
	} else {
		log.Debug().Err(err).Int("exit", res.ExitCode).Msg("coverage: gcovr summary failed")
		o.Steps = append(o.Steps, Step{Name: StepGcovrSummary, Message: describe(res, err)})
	}

	o.Status = StatusGenerated
	return o
}

func (p *Gcovr) filterArgs() []string {
	args := []string{"--root", "."}
	if p.Filter != "" {
		args = append(args, "--filter", p.Filter)
	}
	for _, e := range p.Exclude {
		args = append(args, "--exclude", e)
	}
	return args
}
