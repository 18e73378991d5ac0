package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// markerExt is the extension of upstream compile-verification markers.
const markerExt = ".txt"

// maxSuggestionDistance bounds "did you mean" hints for markers without a source.
const maxSuggestionDistance = 3

// ErrMarkersNotFound is returned when the marker directory does not exist.
var ErrMarkersNotFound = errors.New("verification report directory not found")

// CompilableTest pairs a marker with the test source it names.
type CompilableTest struct {
	Name   string // base name, e.g. "test_math"
	Marker string
	Source string
}

// MissingSource is a marker whose test source does not exist.
type MissingSource struct {
	Marker   string
	Expected string
	// Suggestion is the closest existing test source name, if any.
	Suggestion string
}

// DiscoverCompilableTests pairs every "<base><suffix>.txt" marker with
// "<tests>/<base>.c". Markers without a source are reported separately and
// excluded. Results are in marker name order.
func DiscoverCompilableTests(l Layout) ([]CompilableTest, []MissingSource, error) {
	entries, err := os.ReadDir(l.Markers)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w: %s", ErrMarkersNotFound, l.Markers)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	var tests []CompilableTest
	var missing []MissingSource
	var candidates []string

	for _, entry := range entries {
		base, ok := markerBase(entry, l.MarkerSuffix)
		if !ok {
			continue
		}
		marker := filepath.Join(l.Markers, entry.Name())
		source := filepath.Join(l.Tests, base+".c")

		if info, err := os.Stat(source); err == nil && info.Mode().IsRegular() {
			tests = append(tests, CompilableTest{Name: base, Marker: marker, Source: source})
			log.Debug().Str("marker", entry.Name()).Str("source", source).Msg("project: compilable test")
			continue
		}

		if candidates == nil {
			candidates = testSourceNames(l.Tests)
		}
		m := MissingSource{Marker: marker, Expected: source}
		if hints := suggest(base, candidates, maxSuggestionDistance); len(hints) > 0 {
			m.Suggestion = hints[0] + ".c"
		}
		missing = append(missing, m)
		log.Debug().Str("marker", entry.Name()).Str("expected", source).Msg("project: marker without source")
	}

	return tests, missing, nil
}

// markerBase extracts the test base name from a marker file entry.
func markerBase(entry os.DirEntry, suffix string) (string, bool) {
	if entry.IsDir() {
		return "", false
	}
	tail := suffix + markerExt
	name := entry.Name()
	if !strings.HasSuffix(name, tail) {
		return "", false
	}
	base := strings.TrimSuffix(name, tail)
	return base, base != ""
}

// testSourceNames lists the base names of .c files in dir.
func testSourceNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".c" {
			names = append(names, strings.TrimSuffix(entry.Name(), ".c"))
		}
	}
	return names
}
