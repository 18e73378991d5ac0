package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".ai-test-runner.yaml",
			content: `paths:
  source: lib
tests:
  timeout: 45s
coverage:
  tools: [gcovr]
`,
		},
		{
			name: "yml",
			file: ".ai-test-runner.yml",
			content: `paths: {source: lib}
tests: {timeout: 45}
coverage: {tools: [gcovr]}
`,
		},
		{
			name: "toml",
			file: ".ai-test-runner.toml",
			content: `[paths]
source = "lib"

[tests]
timeout = "45s"

[coverage]
tools = ["gcovr"]
`,
		},
		{
			name:    "json",
			file:    ".ai-test-runner.json",
			content: `{"paths": {"source": "lib"}, "tests": {"timeout": "45s"}, "coverage": {"tools": ["gcovr"]}}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, warnings, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("warnings = %v, want none", warnings)
			}
			if cfg.Paths.Source != "lib" {
				t.Errorf("Paths.Source = %q, want %q", cfg.Paths.Source, "lib")
			}
			if cfg.Tests.Timeout.Duration != 45*time.Second {
				t.Errorf("Tests.Timeout = %v, want 45s", cfg.Tests.Timeout)
			}
			if len(cfg.Coverage.Tools) != 1 || cfg.Coverage.Tools[0] != "gcovr" {
				t.Errorf("Coverage.Tools = %v, want [gcovr]", cfg.Coverage.Tools)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()
	for _, name := range []string{".ai-test-runner.yaml", ".ai-test-runner.toml", ".ai-test-runner.json"} {
		path := writeFile(t, t.TempDir(), name, "\n")
		if _, _, err := Load(path); err != nil {
			t.Errorf("Load(%s) error = %v", name, err)
		}
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, _, err := Load("/nonexistent/path/.ai-test-runner.yaml")
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %q", err)
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		file    string
		content string
	}{
		{".ai-test-runner.json", `{"paths": `},
		{".ai-test-runner.yaml", "paths: [unclosed"},
		{".ai-test-runner.toml", "[paths\nsource = 1"},
		{".ai-test-runner.ini", "[paths]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, _, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected parse error")
			}
			if !strings.Contains(err.Error(), "failed to parse config file") {
				t.Errorf("error = %q, want parse failure", err)
			}
		})
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), ".ai-test-runner.yaml", "coverage:\n  tools: [llvm-cov]\n")

	_, _, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected schema error")
	}
	if !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("error = %q", err)
	}
}

func TestLoadAndValidate_AppliesDefaults(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), ".ai-test-runner.yaml", "build:\n  c_standard: 11\n")

	cfg, _, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if cfg.Build.CStandard != "11" {
		t.Errorf("Build.CStandard = %q, want 11", cfg.Build.CStandard)
	}
	if cfg.Paths.Tests != DefaultTestsDirectory {
		t.Errorf("Paths.Tests = %q, want default", cfg.Paths.Tests)
	}
	if cfg.Tests.Timeout.Duration != DefaultTestTimeout {
		t.Errorf("Tests.Timeout = %v, want default", cfg.Tests.Timeout)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if _, ok := Discover(dir); ok {
		t.Error("Discover() found config in empty dir")
	}

	writeFile(t, dir, ".ai-test-runner.json", "{}")
	writeFile(t, dir, ".ai-test-runner.toml", "")
	path, ok := Discover(dir)
	if !ok {
		t.Fatal("Discover() found nothing")
	}
	if filepath.Base(path) != ".ai-test-runner.toml" {
		t.Errorf("Discover() = %s, want the toml file (earlier in order)", path)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()

	checks := map[string][2]string{
		"paths.tests":    {cfg.Paths.Tests, "tests"},
		"paths.source":   {cfg.Paths.Source, "src"},
		"paths.markers":  {cfg.Paths.Markers, "tests/compilation_report"},
		"paths.reports":  {cfg.Paths.Reports, "tests/test_reports"},
		"paths.coverage": {cfg.Paths.Coverage, "tests/coverage_reports"},
		"markers.suffix": {cfg.Markers.Suffix, "_compiles_yes"},
		"tests.prefix":   {cfg.Tests.Prefix, "test_"},
		"c_standard":     {string(cfg.Build.CStandard), "99"},
		"gcovr.filter":   {cfg.Coverage.Gcovr.Filter, "src/"},
		"unity.url":      {cfg.Unity.URL, DefaultUnityURL},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}

	if strings.Join(cfg.Coverage.Tools, ",") != "lcov,gcovr" {
		t.Errorf("Coverage.Tools = %v", cfg.Coverage.Tools)
	}
	if strings.Join(cfg.Coverage.Lcov.Remove, ",") != "**/unity/**,**/main.c" {
		t.Errorf("Lcov.Remove = %v", cfg.Coverage.Lcov.Remove)
	}
	if *cfg.Unity.Retries != DefaultUnityRetries {
		t.Errorf("Unity.Retries = %d", *cfg.Unity.Retries)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(Default()) error = %v", err)
	}

	// Defaults must not share backing arrays.
	cfg.Coverage.Tools[0] = "changed"
	if Default().Coverage.Tools[0] != "lcov" {
		t.Error("Default() shares slices between calls")
	}
}

func TestCMakeArgs(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Build.CMakeArgs = `-G "Unix Makefiles" -DCMAKE_BUILD_TYPE=Debug`

	args := cfg.CMakeArgs()
	want := []string{"-G", "Unix Makefiles", "-DCMAKE_BUILD_TYPE=Debug"}
	if strings.Join(args, "|") != strings.Join(want, "|") {
		t.Errorf("CMakeArgs() = %q, want %q", args, want)
	}
}

func TestDuration_Unmarshal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"30s"`, 30 * time.Second, false},
		{`"1m30s"`, 90 * time.Second, false},
		{`"15"`, 15 * time.Second, false},
		{`10`, 10 * time.Second, false},
		{`0.5`, 500 * time.Millisecond, false},
		{`"soon"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d.Duration != tt.want {
				t.Errorf("Duration = %v, want %v", d.Duration, tt.want)
			}
		})
	}
}
