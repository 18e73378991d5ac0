//go:build !windows

package process

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sh(script string) Command {
	return Command{Argv: []string{"sh", "-c", script}}
}

func TestRun(t *testing.T) {
	t.Parallel()
	res, err := New().Run(context.Background(), Command{Argv: []string{"true"}})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Success())
	assert.Empty(t, res.Stdout)
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	t.Parallel()
	res, err := New().Run(context.Background(), sh("echo out; echo err 1>&2; exit 3"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRunDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cmd := sh("pwd -P")
	cmd.Dir = dir
	res, err := New().Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Contains(t, res.Stdout, "/")
	assert.NotEmpty(t, res.Stdout)
}

func TestRunEnv(t *testing.T) {
	t.Parallel()
	cmd := sh(`printf '%s' "$AI_TEST_RUNNER_PROBE"`)
	cmd.Env = []string{"AI_TEST_RUNNER_PROBE=hello"}
	res, err := New().Run(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Stdout)
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()
	cmd := sh("echo started; sleep 10")
	cmd.Timeout = 200 * time.Millisecond

	start := time.Now()
	res, err := New().Run(context.Background(), cmd)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, "started\n", res.Stdout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunTimeoutKillsProcessGroup(t *testing.T) {
	t.Parallel()
	cmd := sh("sleep 10 & wait")
	cmd.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := New().Run(context.Background(), cmd)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := New().Run(ctx, sh("sleep 10"))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunNotFound(t *testing.T) {
	t.Parallel()
	res, err := New().Run(context.Background(), Command{Argv: []string{"ai-test-runner-no-such-binary"}})
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunEmptyCommand(t *testing.T) {
	t.Parallel()
	_, err := New().Run(context.Background(), Command{})
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestCommandString(t *testing.T) {
	t.Parallel()
	cmd := Command{Argv: []string{"lcov", "--remove", "coverage.info", "**/unity/**"}}
	assert.Equal(t, "lcov --remove coverage.info '**/unity/**'", cmd.String())
}
