// Package deps reports which repository files a test build depends on.
//
// The runner does not analyse C includes itself. It asks an Analyzer, which
// callers may replace with a real dependency analysis.
package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoSourceDir is returned when the analysed source directory is missing.
var ErrNoSourceDir = errors.New("source directory not found")

// Analyzer returns the absolute paths of the files a repository's tests
// depend on.
type Analyzer interface {
	Dependencies(ctx context.Context, repoPath string) ([]string, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, repoPath string) ([]string, error)

// Dependencies calls f.
func (f AnalyzerFunc) Dependencies(ctx context.Context, repoPath string) ([]string, error) {
	return f(ctx, repoPath)
}

// DefaultExtensions are the file kinds SourceDirAnalyzer reports.
var DefaultExtensions = []string{".c", ".h"}

// SourceDirAnalyzer treats every C source and header directly inside one
// directory as a dependency. Subdirectories are not searched.
type SourceDirAnalyzer struct {
	// Dir is the source directory, relative to the repository unless absolute.
	Dir string
	// Extensions defaults to DefaultExtensions.
	Extensions []string
}

// Dependencies lists matching files in name order.
func (a SourceDirAnalyzer) Dependencies(ctx context.Context, repoPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := a.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoSourceDir, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	exts := a.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if hasExtension(entry.Name(), exts) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	log.Debug().Str("dir", dir).Int("files", len(files)).Msg("deps: scanned source directory")
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
