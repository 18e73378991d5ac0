package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestResolve_NoConfigFile(t *testing.T) {
	t.Parallel()
	res, err := Resolve(ResolveOptions{RepoPath: t.TempDir(), LookupEnv: lookupFrom(nil)})
	require.NoError(t, err)

	assert.Empty(t, res.Path)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, DefaultTestTimeout, res.Config.Tests.Timeout.Duration)
	assert.Equal(t, []string{"lcov", "gcovr"}, res.Config.Coverage.Tools)
}

func TestResolve_FileThenEnv(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, ".ai-test-runner.yaml", "tests:\n  timeout: 10s\npaths:\n  unity: vendor/unity\nextra: 1\n")

	res, err := Resolve(ResolveOptions{
		RepoPath: dir,
		LookupEnv: lookupFrom(map[string]string{
			EnvTimeout:       "5",
			EnvCoverageTools: " gcovr , ",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ".ai-test-runner.yaml"), res.Path)
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, 5*time.Second, res.Config.Tests.Timeout.Duration)
	assert.Equal(t, []string{"gcovr"}, res.Config.Coverage.Tools)
	assert.Equal(t, "vendor/unity", res.Config.Paths.Unity)
}

func TestResolve_EnvDisablesCoverage(t *testing.T) {
	t.Parallel()
	res, err := Resolve(ResolveOptions{
		RepoPath:  t.TempDir(),
		LookupEnv: lookupFrom(map[string]string{EnvCoverageTools: "none", EnvUnityDir: "/opt/unity"}),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Config.Coverage.Tools)
	assert.Equal(t, "/opt/unity", res.Config.Paths.Unity)
}

func TestResolve_InvalidEnv(t *testing.T) {
	t.Parallel()
	_, err := Resolve(ResolveOptions{
		RepoPath:  t.TempDir(),
		LookupEnv: lookupFrom(map[string]string{EnvTimeout: "later"}),
	})
	require.Error(t, err)

	_, err = Resolve(ResolveOptions{
		RepoPath:  t.TempDir(),
		LookupEnv: lookupFrom(map[string]string{EnvCoverageTools: "lcov,llvm-cov"}),
	})
	require.Error(t, err)
}

func TestResolve_ExplicitPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", "[tests]\nprefix = \"check_\"\n")

	res, err := Resolve(ResolveOptions{RepoPath: dir, Path: path, LookupEnv: lookupFrom(nil)})
	require.NoError(t, err)
	assert.Equal(t, "check_", res.Config.Tests.Prefix)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(dir), "missing .env is not an error")

	writeFile(t, dir, ".env", "AI_TEST_RUNNER_DOTENV_PROBE=from-file\nAI_TEST_RUNNER_DOTENV_SET=from-file\n")
	t.Setenv("AI_TEST_RUNNER_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("AI_TEST_RUNNER_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(dir))
	assert.Equal(t, "from-file", os.Getenv("AI_TEST_RUNNER_DOTENV_PROBE"))
	assert.Equal(t, "from-env", os.Getenv("AI_TEST_RUNNER_DOTENV_SET"), ".env must not override the environment")
}
