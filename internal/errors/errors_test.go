package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRunnerError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RunnerError
		expected string
	}{
		{
			name:     "message only",
			err:      &RunnerError{Message: "no compilable tests found"},
			expected: "no compilable tests found",
		},
		{
			name:     "step without test",
			err:      &RunnerError{Step: "configure", Message: "cmake failed"},
			expected: "configure: cmake failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRunnerError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &RunnerError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &RunnerError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestRunnerError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"not found", KindNotFound, ExitRuntimeError},
		{"environment", KindEnvironment, ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &RunnerError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *RunnerError
		kind    ErrorKind
		message string
	}{
		{"New", New("boom"), KindRuntime, "boom"},
		{"Newf", Newf("error %d: %s", 42, "details"), KindRuntime, "error 42: details"},
		{"Config", Config("invalid config"), KindConfig, "invalid config"},
		{"Configf", Configf("field %q: %s", "timeout", "is invalid"), KindConfig, `field "timeout": is invalid`},
		{"Environment", Environment("cmake missing"), KindEnvironment, "cmake missing"},
		{"Environmentf", Environmentf("missing tools: %s", "cmake"), KindEnvironment, "missing tools: cmake"},
		{"NotFound", NotFound("marker directory", "/tmp/x"), KindNotFound, "marker directory not found: /tmp/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("original error")
	err := Wrap(cause, "wrapped message")

	if err.Kind != KindRuntime {
		t.Errorf("Kind = %v, want %v", err.Kind, KindRuntime)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !Is(err, cause) {
		t.Error("Is() should find the original cause")
	}
}

func TestStepError(t *testing.T) {
	cause := errors.New("exit status 2")
	err := StepError("build", "cmake --build failed", cause)

	expected := "build: cmake --build failed"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() should return original cause")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"RunnerError runtime", New("runtime"), ExitRuntimeError},
		{"RunnerError config", Config("config"), ExitConfigError},
		{"RunnerError environment", Environment("env"), ExitEnvironmentError},
		{"wrapped RunnerError", fmt.Errorf("context: %w", Environment("env")), ExitEnvironmentError},
		{"generic error", errors.New("generic"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitRuntimeError != 1 {
		t.Errorf("ExitRuntimeError = %d, want 1", ExitRuntimeError)
	}
	if ExitConfigError != 2 {
		t.Errorf("ExitConfigError = %d, want 2", ExitConfigError)
	}
	if ExitEnvironmentError != 3 {
		t.Errorf("ExitEnvironmentError = %d, want 3", ExitEnvironmentError)
	}
}
