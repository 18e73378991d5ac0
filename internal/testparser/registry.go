package testparser

import "strings"

// DefaultFramework is the framework assumed when none is configured.
const DefaultFramework = "unity"

// Registry maps test framework identifiers to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a new parser registry with all built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	unityParser := &UnityParser{}

	r.parsers["unity"] = unityParser
	r.parsers["c"] = unityParser
	r.parsers["unity-c"] = unityParser

	return r
}

// GetParser returns a parser for the given framework identifier.
// Returns nil if no parser is found.
func (r *Registry) GetParser(framework string) Parser {
	return r.parsers[strings.ToLower(strings.TrimSpace(framework))]
}

// Default returns the parser for DefaultFramework.
func (r *Registry) Default() Parser {
	return r.GetParser(DefaultFramework)
}
