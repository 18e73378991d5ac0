// Package build configures and compiles the generated CMake project.
package build

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

// Build steps.
const (
	StepConfigure = "configure"
	StepCompile   = "build"
)

// StepFailure carries the captured output of a build step that exited
// non-zero.
type StepFailure struct {
	Step    string
	Command string
	Result  process.Result
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("%s exited with code %d", f.Command, f.Result.ExitCode)
}

// Builder runs the two-phase CMake build in the build directory.
type Builder struct {
	Runner process.Runner
	// CMake is the cmake executable; defaults to "cmake".
	CMake string
	// ConfigureArgs are extra arguments for the configure step.
	ConfigureArgs []string
}

// Build runs "cmake [args] ." then "cmake --build .". A non-zero exit from
// either step is a fatal RunnerError wrapping a *StepFailure.
func (b *Builder) Build(ctx context.Context, l project.Layout) error {
	configure := append([]string{b.cmake()}, b.ConfigureArgs...)
	configure = append(configure, ".")

	if err := b.step(ctx, l, StepConfigure, configure, "CMake configuration failed"); err != nil {
		return err
	}
	return b.step(ctx, l, StepCompile, []string{b.cmake(), "--build", "."}, "build failed")
}

func (b *Builder) cmake() string {
	if b.CMake != "" {
		return b.CMake
	}
	return toolchain.CMake
}

func (b *Builder) step(ctx context.Context, l project.Layout, step string, argv []string, failure string) error {
	cmd := process.Command{Argv: argv, Dir: l.Build}
	log.Debug().Str("step", step).Str("cmd", cmd.String()).Msg("build: running")

	res, err := b.Runner.Run(ctx, cmd)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return errors.Environmentf("CMake not found (%s). Please install CMake.", b.cmake())
		}
		return errors.StepError(step, failure, err)
	}
	if res.ExitCode != 0 {
		return errors.StepError(step, failure, &StepFailure{Step: step, Command: cmd.String(), Result: res})
	}

	log.Debug().Str("step", step).Dur("duration", res.Duration).Msg("build: done")
	return nil
}
