package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/karrick/godirwalk"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/deps"
)

// Coverage instrumentation suffixes written by gcc/clang --coverage.
const (
	GcdaSuffix = ".gcda"
	GcnoSuffix = ".gcno"
)

// StageSources copies the library sources and headers reported by analyzer
// into the build tree and returns their base names. Only files directly
// inside the layout's source directory are staged.
func StageSources(ctx context.Context, l Layout, analyzer deps.Analyzer) ([]string, error) {
	files, err := analyzer.Dependencies(ctx, l.Repo)
	if err != nil {
		return nil, err
	}

	dest := l.BuildSource()
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var staged []string
	for _, file := range files {
		if filepath.Dir(file) != filepath.Clean(l.Source) {
			log.Debug().Str("file", file).Msg("project: dependency outside source directory skipped")
			continue
		}
		if ext := filepath.Ext(file); ext != ".c" && ext != ".h" {
			continue
		}
		name := filepath.Base(file)
		if err := copyFile(file, filepath.Join(dest, name)); err != nil {
			return staged, err
		}
		staged = append(staged, name)
	}
	return staged, nil
}

// StageTests replaces the staged test sources with the given tests and
// returns their base names.
func StageTests(l Layout, tests []CompilableTest) ([]string, error) {
	dest := l.BuildTests()
	if err := os.RemoveAll(dest); err != nil {
		log.Warn().Err(err).Str("dir", dest).Msg("project: could not clear staged tests")
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dest, err)
	}

	staged := make([]string, 0, len(tests))
	for _, t := range tests {
		name := filepath.Base(t.Source)
		if err := copyFile(t.Source, filepath.Join(dest, name)); err != nil {
			return staged, err
		}
		staged = append(staged, name)
	}
	return staged, nil
}

// CleanInstrumentation removes *.gcda and *.gcno files left in the build tree
// by a previous run. It returns the removed paths; removal failures are
// collected into the error and do not stop the sweep.
func CleanInstrumentation(l Layout) ([]string, error) {
	files, err := FindFiles(l.Build, GcdaSuffix, GcnoSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.Build, err)
	}

	var removed []string
	var result *multierror.Error
	for _, file := range files {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			result = multierror.Append(result, err)
			continue
		}
		removed = append(removed, file)
	}
	return removed, result.ErrorOrNil()
}

// copyFile copies src to dst, keeping the permission bits. The copy gets a
// fresh modification time, so every staged file is newer than the objects
// of the previous build and the build tool recompiles it. That rebuild is
// what regenerates the .gcno files CleanInstrumentation removes.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return nil
}

// CopyTree copies the directory tree at src to dst. Symlinks and other
// special files are skipped.
func CopyTree(src, dst string) error {
	return godirwalk.Walk(src, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dst, rel)
			switch {
			case de.IsDir():
				return os.MkdirAll(target, 0755)
			case de.IsRegular():
				return copyFile(path, target)
			default:
				return nil
			}
		},
	})
}
