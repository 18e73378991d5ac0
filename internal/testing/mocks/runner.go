// Package mocks provides shared test doubles for ai-test-runner packages.
package mocks

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ctestkit/aitestrunner/internal/process"
)

// Response is what the mock returns for a matching command.
type Response struct {
	Result process.Result
	Err    error
	// Effect runs before the response is returned, e.g. to create the files
	// a real tool would have written. A non-nil error replaces Err.
	Effect func(cmd process.Command) error
}

type rule struct {
	prefix string
	resp   Response
}

// Runner implements process.Runner for testing.
// Use NewRunner() to create instances with a fluent builder API.
//
// Commands are matched against registered prefixes of their space-joined
// argv, first registration wins. Unmatched commands succeed with exit 0.
type Runner struct {
	mu      sync.Mutex
	rules   []rule
	missing map[string]bool
	calls   []process.Command

	callCount int32
}

// NewRunner creates a new mock runner.
func NewRunner() *Runner {
	return &Runner{missing: make(map[string]bool)}
}

// On registers a response for commands starting with prefix.
func (m *Runner) On(prefix string, resp Response) *Runner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule{prefix: prefix, resp: resp})
	return m
}

// OnExit registers an exit code and stdout for commands starting with prefix.
func (m *Runner) OnExit(prefix string, exitCode int, stdout string) *Runner {
	return m.On(prefix, Response{Result: process.Result{ExitCode: exitCode, Stdout: stdout}})
}

// WithMissing makes commands whose argv[0] is name fail as if not installed.
func (m *Runner) WithMissing(names ...string) *Runner {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		m.missing[name] = true
	}
	return m
}

// Run implements process.Runner.
func (m *Runner) Run(ctx context.Context, cmd process.Command) (process.Result, error) {
	atomic.AddInt32(&m.callCount, 1)

	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	var missing bool
	if len(cmd.Argv) > 0 {
		missing = m.missing[cmd.Argv[0]]
	}
	resp, found := m.match(cmd)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return process.Result{ExitCode: -1}, err
	}
	if len(cmd.Argv) == 0 {
		return process.Result{ExitCode: -1}, process.ErrEmptyCommand
	}
	if missing {
		return process.Result{ExitCode: -1}, &exec.Error{Name: cmd.Argv[0], Err: exec.ErrNotFound}
	}
	if !found {
		return process.Result{}, nil
	}

	err := resp.Err
	if resp.Effect != nil {
		if effectErr := resp.Effect(cmd); effectErr != nil {
			err = effectErr
		}
	}
	return resp.Result, err
}

func (m *Runner) match(cmd process.Command) (Response, bool) {
	line := strings.Join(cmd.Argv, " ")
	for _, r := range m.rules {
		if strings.HasPrefix(line, r.prefix) {
			return r.resp, true
		}
	}
	return Response{}, false
}

// Test inspection methods

// CallCount returns the number of times Run was called.
func (m *Runner) CallCount() int32 {
	return atomic.LoadInt32(&m.callCount)
}

// Calls returns the commands passed to Run, in order.
func (m *Runner) Calls() []process.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]process.Command, len(m.calls))
	copy(result, m.calls)
	return result
}

// CommandLines returns each recorded argv joined with spaces.
func (m *Runner) CommandLines() []string {
	calls := m.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = strings.Join(c.Argv, " ")
	}
	return lines
}

// Reset clears execution tracking state.
func (m *Runner) Reset() {
	atomic.StoreInt32(&m.callCount, 0)
	m.mu.Lock()
	m.calls = nil
	m.mu.Unlock()
}
