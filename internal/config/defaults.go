package config

import "time"

// Default configuration values.
const (
	DefaultTestsDirectory    = "tests"
	DefaultSourceDirectory   = "src"
	DefaultMarkersDirectory  = "tests/compilation_report"
	DefaultMarkerSuffix      = "_compiles_yes"
	DefaultReportsDirectory  = "tests/test_reports"
	DefaultCoverageDirectory = "tests/coverage_reports"
	DefaultUnityReference    = "../ai-test-gemini-CLI/unity"
	DefaultTestPrefix        = "test_"
	DefaultFramework         = "unity"
	DefaultTestTimeout       = 30 * time.Second
	DefaultCStandard         = "99"
	DefaultUnityURL          = "https://github.com/ThrowTheSwitch/Unity/archive/refs/heads/master.zip"
	DefaultUnityRetries      = 3
	DefaultGcovrFilter       = "src/"
)

// Default slice values. Copied on use.
var (
	defaultDefines       = []string{"UNIT_TEST"}
	defaultCoverageTools = []string{"lcov", "gcovr"}
	defaultLcovRemove    = []string{"**/unity/**", "**/main.c"}
	defaultLcovExtract   = []string{"**/src/*.c"}
	defaultGcovrExclude  = []string{"unity/", "src/main.c"}
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyPathDefaults(cfg)
	applyTestsDefaults(cfg)
	applyBuildDefaults(cfg)
	applyCoverageDefaults(cfg)
	applyUnityDefaults(cfg)
}

func applyPathDefaults(cfg *Config) {
	setDefault(&cfg.Paths.Tests, DefaultTestsDirectory)
	setDefault(&cfg.Paths.Source, DefaultSourceDirectory)
	setDefault(&cfg.Paths.Markers, DefaultMarkersDirectory)
	setDefault(&cfg.Paths.Reports, DefaultReportsDirectory)
	setDefault(&cfg.Paths.Coverage, DefaultCoverageDirectory)
	setDefault(&cfg.Paths.Unity, DefaultUnityReference)
	setDefault(&cfg.Markers.Suffix, DefaultMarkerSuffix)
}

func applyTestsDefaults(cfg *Config) {
	setDefault(&cfg.Tests.Prefix, DefaultTestPrefix)
	setDefault(&cfg.Tests.Framework, DefaultFramework)
	if cfg.Tests.Timeout.Duration == 0 {
		cfg.Tests.Timeout.Duration = DefaultTestTimeout
	}
}

func applyBuildDefaults(cfg *Config) {
	if cfg.Build.CStandard == "" {
		cfg.Build.CStandard = DefaultCStandard
	}
	if cfg.Build.Defines == nil {
		cfg.Build.Defines = clone(defaultDefines)
	}
}

func applyCoverageDefaults(cfg *Config) {
	if cfg.Coverage.Tools == nil {
		cfg.Coverage.Tools = clone(defaultCoverageTools)
	}
	if cfg.Coverage.Lcov.Remove == nil {
		cfg.Coverage.Lcov.Remove = clone(defaultLcovRemove)
	}
	if cfg.Coverage.Lcov.Extract == nil {
		cfg.Coverage.Lcov.Extract = clone(defaultLcovExtract)
	}
	setDefault(&cfg.Coverage.Gcovr.Filter, DefaultGcovrFilter)
	if cfg.Coverage.Gcovr.Exclude == nil {
		cfg.Coverage.Gcovr.Exclude = clone(defaultGcovrExclude)
	}
}

func applyUnityDefaults(cfg *Config) {
	setDefault(&cfg.Unity.URL, DefaultUnityURL)
	if cfg.Unity.Retries == nil {
		retries := DefaultUnityRetries
		cfg.Unity.Retries = &retries
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
