// Package unity puts the Unity C test framework into the build tree.
//
// A local reference checkout is preferred. Without one, the framework's
// sources are downloaded as a zip archive and only its src/ directory is
// extracted.
package unity

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/project"
)

// Method reports how the framework was staged.
type Method string

// Staging methods.
const (
	Copied     Method = "copied"
	Downloaded Method = "downloaded"
)

// Options configures Stage.
type Options struct {
	// URL of the Unity zip archive used when no reference copy exists.
	URL string
	// Retries is the number of download retries after the first attempt.
	Retries int
	// Client overrides the HTTP client, mainly for tests.
	Client *retryablehttp.Client
}

// Result describes a successful Stage.
type Result struct {
	Method Method
	Source string // reference directory or download URL
	Files  int    // files written
}

// Stage copies the reference Unity checkout into <build>/unity when it holds
// at least one .c file, replacing any existing copy. Otherwise it downloads
// opts.URL and extracts the archive's src/ directory into <build>/unity/src.
func Stage(ctx context.Context, l project.Layout, opts Options) (Result, error) {
	dest := l.BuildUnity()

	if hasSources(l.UnityReference) {
		if err := os.RemoveAll(dest); err != nil {
			log.Warn().Err(err).Str("dir", dest).Msg("unity: could not remove existing copy")
		}
		if err := project.CopyTree(l.UnityReference, dest); err != nil {
			return Result{}, fmt.Errorf("failed to copy Unity from %s: %w", l.UnityReference, err)
		}
		files, _ := project.FindFiles(dest, "")
		log.Debug().Str("from", l.UnityReference).Int("files", len(files)).Msg("unity: copied reference")
		return Result{Method: Copied, Source: l.UnityReference, Files: len(files)}, nil
	}

	log.Debug().Str("reference", l.UnityReference).Msg("unity: no reference copy, downloading")
	n, err := download(ctx, opts, dest)
	if err != nil {
		return Result{}, err
	}
	return Result{Method: Downloaded, Source: opts.URL, Files: n}, nil
}

func hasSources(dir string) bool {
	if dir == "" {
		return false
	}
	files, err := project.FindFiles(dir, ".c")
	return err == nil && len(files) > 0
}

// newClient builds the retrying HTTP client used for downloads.
func newClient(retries int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = httpLogger{}
	return client
}
