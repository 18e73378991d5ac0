// Package errors provides structured error types and exit codes for the test runner.
package errors

import (
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (build failed, tests failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config file, bad flags, etc.)
	ExitEnvironmentError = 3 // Environment error (cmake missing, unreadable repository, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// RunnerError is the base error type for the test runner.
type RunnerError struct {
	Kind    ErrorKind
	Message string
	Step    string // Pipeline step if applicable (e.g. "configure", "build")
	Cause   error  // Underlying error
}

func (e *RunnerError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s", e.Step, e.Message)
	}
	return e.Message
}

func (e *RunnerError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *RunnerError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *RunnerError {
	return &RunnerError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *RunnerError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *RunnerError {
	return &RunnerError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *RunnerError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *RunnerError {
	return &RunnerError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *RunnerError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *RunnerError {
	return &RunnerError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// StepError creates an error for a failed pipeline step, keeping the cause.
func StepError(step, message string, cause error) *RunnerError {
	return &RunnerError{
		Kind:    KindRuntime,
		Step:    step,
		Message: message,
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *RunnerError {
	return &RunnerError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var re *RunnerError
	if As(err, &re) {
		return re.ExitCode()
	}
	return ExitRuntimeError
}
