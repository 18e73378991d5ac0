package unity

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// archiveSourceDir is the directory extracted from the archive, below its
// single top-level directory (e.g. "Unity-master/src/").
const archiveSourceDir = "src"

// download fetches the archive at opts.URL and extracts its src/ tree into
// dest/src. It returns the number of files written.
func download(ctx context.Context, opts Options, dest string) (int, error) {
	if opts.URL == "" {
		return 0, fmt.Errorf("no Unity download URL configured")
	}
	client := opts.Client
	if client == nil {
		client = newClient(opts.Retries)
	}

	tmp, err := os.CreateTemp("", "unity-*.zip")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to download Unity: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download Unity: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to download Unity: %s returned %s", opts.URL, resp.Status)
	}

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to download Unity: %w", err)
	}
	log.Debug().Str("url", opts.URL).Str("size", humanize.Bytes(uint64(size))).Msg("unity: downloaded archive")

	return extractSources(tmp, size, dest)
}

// extractSources writes the archive's <top>/src/ entries to dest/src.
func extractSources(r io.ReaderAt, size int64, dest string) (int, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("failed to open Unity archive: %w", err)
	}

	written := 0
	for _, f := range zr.File {
		rel, ok := sourceEntry(f.Name)
		if !ok {
			continue
		}
		target := filepath.Join(dest, archiveSourceDir, filepath.FromSlash(rel))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return written, err
		}
		written++
	}

	if written == 0 {
		return 0, fmt.Errorf("Unity archive has no %s/ directory", archiveSourceDir)
	}
	return written, nil
}

// sourceEntry maps "<top>/src/<rel>" to rel. Entries that would escape the
// destination are rejected.
func sourceEntry(name string) (string, bool) {
	parts := strings.SplitN(name, "/", 3)
	if len(parts) < 3 || parts[1] != archiveSourceDir || parts[2] == "" {
		return "", false
	}
	rel := path.Clean(parts[2])
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return out.Close()
}
