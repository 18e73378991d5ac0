// Package config provides loading and validation of the optional
// .ai-test-runner configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Config represents the complete runner configuration.
// Every field has a default; an empty file is a valid configuration.
type Config struct {
	Paths    PathsConfig       `json:"paths"`
	Markers  MarkersConfig     `json:"markers"`
	Tests    TestsConfig       `json:"tests"`
	Build    BuildConfig       `json:"build"`
	Coverage CoverageConfig    `json:"coverage"`
	Unity    UnityConfig       `json:"unity"`
	Tools    map[string]string `json:"tools,omitempty"` // tool name -> executable
}

// PathsConfig locates inputs and outputs. All paths except Unity are
// relative to the repository root.
type PathsConfig struct {
	Tests    string `json:"tests,omitempty"`
	Source   string `json:"source,omitempty"`
	Markers  string `json:"markers,omitempty"`
	Reports  string `json:"reports,omitempty"`
	Coverage string `json:"coverage,omitempty"`
	// Unity is a reference copy of the Unity framework. Relative paths are
	// resolved against the repository root.
	Unity string `json:"unity,omitempty"`
}

// MarkersConfig describes the upstream compile-verification markers.
type MarkersConfig struct {
	Suffix string `json:"suffix,omitempty"`
}

// TestsConfig configures test discovery and execution.
type TestsConfig struct {
	Prefix    string   `json:"prefix,omitempty"`
	Framework string   `json:"framework,omitempty"`
	Timeout   Duration `json:"timeout,omitempty"`
}

// BuildConfig configures the generated CMake project.
type BuildConfig struct {
	CStandard CStandard `json:"c_standard,omitempty"`
	Defines   []string  `json:"defines,omitempty"`
	CMakeArgs string    `json:"cmake_args,omitempty"`
}

// CoverageConfig configures the coverage tools and their filters.
type CoverageConfig struct {
	Tools []string    `json:"tools,omitempty"`
	Lcov  LcovConfig  `json:"lcov"`
	Gcovr GcovrConfig `json:"gcovr"`
}

// LcovConfig holds lcov path globs.
type LcovConfig struct {
	Remove  []string `json:"remove,omitempty"`
	Extract []string `json:"extract,omitempty"`
}

// GcovrConfig holds gcovr filters.
type GcovrConfig struct {
	Filter  string   `json:"filter,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// UnityConfig configures the Unity download fallback.
type UnityConfig struct {
	URL     string `json:"url,omitempty"`
	Retries *int   `json:"retries,omitempty"`
}

// Duration is a time.Duration that decodes from "30s" or a number of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		parsed, err := ParseDuration(val)
		if err != nil {
			return err
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(val * float64(time.Second))
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ParseDuration accepts a Go duration string or a plain number of seconds.
func ParseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// CStandard is the C language standard passed to CMAKE_C_STANDARD.
// It decodes from either a string or a number.
type CStandard string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CStandard) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case string:
		*c = CStandard(val)
	case float64:
		*c = CStandard(strconv.Itoa(int(val)))
	case nil:
		*c = ""
	default:
		return fmt.Errorf("invalid c_standard %s", string(b))
	}
	return nil
}
