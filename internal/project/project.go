package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctestkit/aitestrunner/internal/config"
)

// Build tree subdirectories and coverage file names.
const (
	BuildSourceDir   = "src"
	BuildTestsDir    = "tests"
	BuildUnityDir    = "unity"
	ManifestFileName = "CMakeLists.txt"
)

// Layout holds every path the pipeline touches. It is computed once from the
// repository path, the output directory name and the configuration, then
// passed explicitly to each stage.
type Layout struct {
	Repo string // absolute repository root

	Tests    string // test sources
	Source   string // library sources
	Markers  string // upstream *_compiles_yes.txt markers
	Reports  string // per-test reports and summary.json
	Coverage string // HTML coverage report

	// UnityReference is a Unity checkout copied into the build tree when present.
	UnityReference string

	Build string // generated CMake project and binaries

	MarkerSuffix string // e.g. "_compiles_yes"
	TestPrefix   string // e.g. "test_"
}

// NewLayout resolves all paths against repoPath. outputDir is the build
// directory, relative to the repository unless absolute.
func NewLayout(repoPath, outputDir string, cfg *config.Config) (Layout, error) {
	repo, err := ResolveRepo(repoPath)
	if err != nil {
		return Layout{}, err
	}
	if outputDir == "" {
		return Layout{}, fmt.Errorf("output directory must not be empty")
	}

	l := Layout{
		Repo:           repo,
		Tests:          filepath.Join(repo, cfg.Paths.Tests),
		Source:         filepath.Join(repo, cfg.Paths.Source),
		Markers:        filepath.Join(repo, cfg.Paths.Markers),
		Reports:        filepath.Join(repo, cfg.Paths.Reports),
		Coverage:       filepath.Join(repo, cfg.Paths.Coverage),
		UnityReference: resolve(repo, cfg.Paths.Unity),
		Build:          resolve(repo, outputDir),
		MarkerSuffix:   cfg.Markers.Suffix,
		TestPrefix:     cfg.Tests.Prefix,
	}
	return l, nil
}

func resolve(repo, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(repo, path)
}

// BuildSource returns the staged library source directory.
func (l Layout) BuildSource() string { return filepath.Join(l.Build, BuildSourceDir) }

// BuildTests returns the staged test source directory.
func (l Layout) BuildTests() string { return filepath.Join(l.Build, BuildTestsDir) }

// BuildUnity returns the staged Unity framework directory.
func (l Layout) BuildUnity() string { return filepath.Join(l.Build, BuildUnityDir) }

// Manifest returns the generated CMakeLists.txt path.
func (l Layout) Manifest() string { return filepath.Join(l.Build, ManifestFileName) }

// Rel returns path relative to the repository, or path itself when it lies
// outside the repository.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Repo, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
