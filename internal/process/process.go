// Package process runs external commands with captured output and an
// optional timeout.
package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/alessio/shellescape"
	"github.com/rs/zerolog/log"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("timed out")

// ErrEmptyCommand is returned for a Command without argv.
var ErrEmptyCommand = errors.New("empty command")

// Command describes one external invocation.
type Command struct {
	Argv    []string
	Dir     string
	Env     []string      // appended to the current environment
	Timeout time.Duration // zero means no timeout
}

// String returns the command line quoted for a POSIX shell.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv)
}

// Result is the outcome of a command that was started.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Success reports whether the command exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Runner executes commands.
//
// A non-zero exit status is not an error: it is reported in Result.ExitCode.
// Errors are returned when the command cannot be started, times out
// (ErrTimeout) or the context is cancelled.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Executor is the os/exec backed Runner.
type Executor struct {
	// WaitDelay bounds how long output is drained after the process is killed.
	WaitDelay time.Duration
}

// New creates an Executor.
func New() *Executor {
	return &Executor{WaitDelay: time.Second}
}

// Run starts cmd, waits for it and captures stdout and stderr separately.
// On timeout or cancellation the whole process group is terminated.
func (e *Executor) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Argv) == 0 {
		return Result{ExitCode: -1}, ErrEmptyCommand
	}

	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	setProcessGroup(cmd)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.WaitDelay = e.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("dir", c.Dir).Dur("timeout", c.Timeout).Msgf("exec: %s", c)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var waitErr error
	select {
	case waitErr = <-done:
	case <-timeout:
		terminate(cmd, done)
		log.Debug().Str("cmd", c.Argv[0]).Dur("timeout", c.Timeout).Msg("exec: timed out")
		return Result{
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(start),
			TimedOut: true,
		}, ErrTimeout
	case <-ctx.Done():
		terminate(cmd, done)
		return Result{
			ExitCode: -1,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(start),
		}, ctx.Err()
	}

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			res.ExitCode = -1
			return res, waitErr
		}
		res.ExitCode = exitErr.ExitCode()
	}

	log.Debug().Str("cmd", c.Argv[0]).Int("exit", res.ExitCode).Dur("took", res.Duration).Msg("exec: finished")
	return res, nil
}

// terminate sends SIGTERM then SIGKILL to the process group and waits for
// the Wait goroutine to finish so the output buffers are safe to read.
func terminate(cmd *exec.Cmd, done <-chan error) {
	signalGroup(cmd, false)
	select {
	case <-done:
		return
	case <-time.After(30 * time.Millisecond):
	}
	signalGroup(cmd, true)
	<-done
}
