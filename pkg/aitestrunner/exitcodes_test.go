package aitestrunner_test

import (
	"testing"

	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/pkg/aitestrunner"
)

func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		constant int
		expected int
	}{
		{"ExitSuccess", aitestrunner.ExitSuccess, 0},
		{"ExitFailure", aitestrunner.ExitFailure, 1},
		{"ExitConfigError", aitestrunner.ExitConfigError, 2},
		{"ExitEnvError", aitestrunner.ExitEnvError, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("aitestrunner.%s = %d, want %d", tt.name, tt.constant, tt.expected)
			}
		})
	}
}

// Public constants must not drift from the internal errors package.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
	}{
		{"Success", aitestrunner.ExitSuccess, errors.ExitSuccess},
		{"Failure/RuntimeError", aitestrunner.ExitFailure, errors.ExitRuntimeError},
		{"ConfigError", aitestrunner.ExitConfigError, errors.ExitConfigError},
		{"EnvError/EnvironmentError", aitestrunner.ExitEnvError, errors.ExitEnvironmentError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.internal {
				t.Errorf("exit code mismatch: public constant = %d, errors constant = %d",
					tt.public, tt.internal)
			}
		})
	}
}
