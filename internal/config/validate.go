package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"github.com/ctestkit/aitestrunner/internal/testparser"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

// Coverage tool names accepted in coverage.tools.
var knownCoverageTools = map[string]bool{
	toolchain.Lcov:  true,
	toolchain.Gcovr: true,
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a defaulted configuration for semantic errors the schema
// cannot express, including values that came from the environment.
func Validate(cfg *Config) error {
	if err := validatePaths(cfg); err != nil {
		return err
	}
	if err := validateTests(cfg); err != nil {
		return err
	}
	if err := validateBuild(cfg); err != nil {
		return err
	}
	if err := validateCoverage(cfg); err != nil {
		return err
	}
	return validateTools(cfg)
}

func validatePaths(cfg *Config) error {
	paths := []struct {
		field string
		value string
	}{
		{"paths.tests", cfg.Paths.Tests},
		{"paths.source", cfg.Paths.Source},
		{"paths.markers", cfg.Paths.Markers},
		{"paths.reports", cfg.Paths.Reports},
		{"paths.coverage", cfg.Paths.Coverage},
	}
	for _, p := range paths {
		if p.value == "" {
			return &ValidationError{Field: p.field, Message: "is required"}
		}
		if filepath.IsAbs(p.value) {
			return &ValidationError{Field: p.field, Message: "must be relative to the repository root"}
		}
	}
	if cfg.Markers.Suffix == "" {
		return &ValidationError{Field: "markers.suffix", Message: "is required"}
	}
	return nil
}

func validateTests(cfg *Config) error {
	if cfg.Tests.Timeout.Duration <= 0 {
		return &ValidationError{Field: "tests.timeout", Message: "must be positive"}
	}
	if testparser.NewRegistry().GetParser(cfg.Tests.Framework) == nil {
		return &ValidationError{
			Field:   "tests.framework",
			Message: fmt.Sprintf("unknown test framework %q", cfg.Tests.Framework),
		}
	}
	return nil
}

func validateBuild(cfg *Config) error {
	if _, err := shlex.Split(cfg.Build.CMakeArgs); err != nil {
		return &ValidationError{Field: "build.cmake_args", Message: err.Error()}
	}
	return nil
}

func validateCoverage(cfg *Config) error {
	seen := make(map[string]bool)
	for _, tool := range cfg.Coverage.Tools {
		if !knownCoverageTools[tool] {
			return &ValidationError{
				Field:   "coverage.tools",
				Message: fmt.Sprintf("unknown coverage tool %q (want lcov or gcovr)", tool),
			}
		}
		if seen[tool] {
			return &ValidationError{
				Field:   "coverage.tools",
				Message: fmt.Sprintf("duplicate coverage tool %q", tool),
			}
		}
		seen[tool] = true
	}
	return nil
}

func validateTools(cfg *Config) error {
	if _, err := toolchain.NewResolver(cfg.Tools); err != nil {
		return &ValidationError{Field: "tools", Message: err.Error()}
	}
	return nil
}

// CMakeArgs returns build.cmake_args split like a shell would.
func (c *Config) CMakeArgs() []string {
	args, err := shlex.Split(strings.TrimSpace(c.Build.CMakeArgs))
	if err != nil {
		return nil
	}
	return args
}
