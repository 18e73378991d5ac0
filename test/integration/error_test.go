package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctestkit/aitestrunner/internal/build"
	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/project"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

func TestBuildFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)
	repo := copyFixture(t, "calculator")
	failing := `[ "$1" = "--build" ] || exit 0
echo "test_parse.c:3:10: error: unknown type name 'uint8'" >&2
exit 2
`
	r, layout := newRunner(t, repo, map[string]string{"cmake": writeTool(t, "cmake", failing)})

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("Run() succeeded with a failing build")
	}
	var re *errors.RunnerError
	if !errors.As(err, &re) || re.Step != build.StepCompile {
		t.Fatalf("Run() error = %v, want a %s step error", err, build.StepCompile)
	}
	if errors.GetExitCode(err) != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitRuntimeError)
	}
	var sf *build.StepFailure
	if !errors.As(err, &sf) || !strings.Contains(sf.Result.Stderr, "unknown type name") {
		t.Errorf("error %v does not carry the compiler output", err)
	}
	// Staging happened before the build.
	if _, err := os.Stat(layout.Manifest()); err != nil {
		t.Errorf("manifest missing after failed build: %v", err)
	}
}

func TestConfigureFailure(t *testing.T) {
	t.Parallel()
	requireShell(t)
	repo := copyFixture(t, "calculator")
	r, _ := newRunner(t, repo, map[string]string{"cmake": writeTool(t, "cmake", "echo 'CMake Error: bad project' >&2\nexit 1\n")})

	_, err := r.Run(context.Background())
	var re *errors.RunnerError
	if !errors.As(err, &re) || re.Step != build.StepConfigure {
		t.Fatalf("Run() error = %v, want a %s step error", err, build.StepConfigure)
	}
}

func TestNoVerificationReports(t *testing.T) {
	t.Parallel()
	requireShell(t)
	repo := copyFixture(t, "broken")
	r, _ := newRunner(t, repo, map[string]string{"cmake": writeTool(t, "cmake", fakeCMake)})

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("Run() succeeded without verification reports")
	}
	if !strings.Contains(err.Error(), "verification report directory not found") {
		t.Errorf("error = %q", err)
	}
	if errors.GetExitCode(err) != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitRuntimeError)
	}
}

func TestMissingCMake(t *testing.T) {
	t.Parallel()
	def, _ := toolchain.Get(toolchain.CMake)
	def.Binary = filepath.Join(t.TempDir(), "cmake")

	err := toolchain.RequireOnPath(def)
	if err == nil {
		t.Fatal("RequireOnPath() succeeded for a missing binary")
	}
	if errors.GetExitCode(err) != errors.ExitEnvironmentError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitEnvironmentError)
	}
}

func TestDiscoverFixture(t *testing.T) {
	t.Parallel()
	repo := copyFixture(t, "calculator")
	cfgLayout, err := project.NewLayout(repo, "build", mustDefaults(t, repo))
	if err != nil {
		t.Fatal(err)
	}

	tests, missing, err := project.DiscoverCompilableTests(cfgLayout)
	if err != nil {
		t.Fatalf("DiscoverCompilableTests() error = %v", err)
	}
	var names []string
	for _, tc := range tests {
		names = append(names, tc.Name)
	}
	if strings.Join(names, ",") != "test_calc,test_parse" {
		t.Errorf("compilable tests = %v, want [test_calc test_parse]", names)
	}
	if len(missing) != 1 || filepath.Base(missing[0].Expected) != "test_calcs.c" {
		t.Errorf("missing = %+v, want test_calcs.c", missing)
	}
}
