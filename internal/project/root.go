// Package project locates a C repository's inputs and the build tree the
// runner generates from them.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when the repository path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ResolveRepo returns the absolute, cleaned repository path and checks that
// it is an existing directory.
func ResolveRepo(path string) (string, error) {
	if path == "" {
		path = "."
	}
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("repository %q does not exist", dir)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access repository %q: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("repository %q: %w", dir, ErrNotDirectory)
	}
	return dir, nil
}
