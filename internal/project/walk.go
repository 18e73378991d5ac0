package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// FindFiles returns every regular file under root whose name ends in one of
// suffixes. A missing root yields no files.
func FindFiles(root string, suffixes ...string) ([]string, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsRegular() {
				return nil
			}
			name := filepath.Base(path)
			for _, suffix := range suffixes {
				if strings.HasSuffix(name, suffix) {
					files = append(files, path)
					break
				}
			}
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			return godirwalk.SkipNode
		},
	})
	return files, err
}
