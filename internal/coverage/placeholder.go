package coverage

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
)

const (
	indexFileName    = "index.html"
	placeholderTitle = "No coverage data"
)

// Placeholder reasons.
const (
	ReasonNoPassingTests    = "All tests failed - no coverage data was generated. Only passing tests generate coverage."
	ReasonNoInstrumentation = "No .gcda files were found in the build directory. Ensure tests are run with coverage instrumentation."
)

// WritePlaceholder writes a minimal index.html into dir explaining why no
// coverage report exists, and returns its path.
func WritePlaceholder(dir, title, reason string) (string, error) {
	if title == "" {
		title = placeholderTitle
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, indexFileName)
	page := fmt.Sprintf("<html><head><title>%s</title></head><body>\n"+
		"<h1>No coverage data available</h1>\n"+
		"<p>%s</p>\n"+
		"</body></html>\n",
		html.EscapeString(title), html.EscapeString(reason))

	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// writeInfoPlaceholder writes an lcov-compatible info file with no records.
func writeInfoPlaceholder(path string) error {
	return os.WriteFile(path, []byte("# coverage info: no data captured\n"), 0644)
}

func joinPath(dir, name string) string {
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}
