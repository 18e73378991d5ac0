// Package manifest generates the CMake project that builds one executable
// per compilable test.
package manifest

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/project"
)

//go:embed *.tmpl
var templateFS embed.FS

var manifestTemplate = template.Must(template.ParseFS(templateFS, "CMakeLists.txt.tmpl"))

// Options configures the generated project.
type Options struct {
	CStandard string   // CMAKE_C_STANDARD value
	Defines   []string // preprocessor definitions without -D
	// TestPrefix is stripped from a test's name to find its source under
	// test: test_math.c links src/math.c.
	TestPrefix string
}

// Target is one test executable.
type Target struct {
	Name    string   // executable and CMake target name
	Test    string   // test source file name in tests/
	Sources []string // library source file names in src/
}

type manifestData struct {
	CStandard string
	Defines   []string
	Targets   []Target
}

// Targets pairs each test source with its source under test, if that file
// is among sources. Tests and sources are file names.
func Targets(tests, sources []string, testPrefix string) []Target {
	available := make(map[string]bool, len(sources))
	for _, s := range sources {
		available[s] = true
	}

	targets := make([]Target, 0, len(tests))
	for _, test := range tests {
		name := strings.TrimSuffix(test, filepath.Ext(test))
		t := Target{Name: name, Test: test}
		if primary := strings.TrimPrefix(name, testPrefix) + ".c"; available[primary] {
			t.Sources = []string{primary}
		}
		targets = append(targets, t)
	}
	return targets
}

// Generate renders the CMakeLists.txt content.
func Generate(tests, sources []string, opts Options) (string, error) {
	data := manifestData{
		CStandard: opts.CStandard,
		Defines:   opts.Defines,
		Targets:   Targets(tests, sources, opts.TestPrefix),
	}

	var buf strings.Builder
	if err := manifestTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute CMakeLists.txt template: %w", err)
	}
	return buf.String(), nil
}

// Write generates the manifest for the staged tests, linking against the
// .c files staged in the build tree, and writes it to l.Manifest().
func Write(l project.Layout, tests []string, opts Options) ([]Target, error) {
	sources, err := stagedSources(l.BuildSource())
	if err != nil {
		return nil, err
	}

	content, err := Generate(tests, sources, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(l.Build, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", l.Build, err)
	}
	if err := os.WriteFile(l.Manifest(), []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", l.Manifest(), err)
	}

	targets := Targets(tests, sources, opts.TestPrefix)
	log.Debug().Str("path", l.Manifest()).Int("targets", len(targets)).Msg("manifest: written")
	return targets, nil
}

func stagedSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list staged sources: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".c" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
