// Package aitestrunner provides public constants for tools that invoke
// ai-test-runner and need to interpret its exit status.
package aitestrunner

// Exit codes returned by the ai-test-runner CLI.
const (
	// ExitSuccess indicates every test assertion passed (or, without
	// assertion-level data, every test executable exited zero).
	ExitSuccess = 0

	// ExitFailure indicates a failed test, a failed build, or no compilable tests.
	ExitFailure = 1

	// ExitConfigError indicates an invalid config file or flag combination.
	ExitConfigError = 2

	// ExitEnvError indicates a missing required tool such as cmake.
	ExitEnvError = 3
)
