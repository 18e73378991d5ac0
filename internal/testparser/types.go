// Package testparser interprets the stdout of C unit test executables.
package testparser

// FailedTest holds information about a single failed test function.
type FailedTest struct {
	Name   string `json:"name"`             // Test function name (e.g., "test_add")
	Reason string `json:"reason,omitempty"` // Failure message printed after the FAIL marker
}

// TestCounts holds parsed assertion-level result counts.
// Counts are never negative and Total == Passed + Failed.
type TestCounts struct {
	Passed      int
	Failed      int
	Total       int
	Parsed      bool         // true if any marker or summary line was recognized
	FailedTests []FailedTest // details of failed tests
}

// Parser defines the interface for test output parsers.
type Parser interface {
	// Parse extracts test counts from the test framework output.
	// It is a pure function of its input.
	Parse(output string) TestCounts
	// Name returns the name of the parser.
	Name() string
}
