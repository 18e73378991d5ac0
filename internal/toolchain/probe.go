package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"

	"github.com/ctestkit/aitestrunner/internal/errors"
	"github.com/ctestkit/aitestrunner/internal/process"
)

// Tool is a probed, runnable external program.
type Tool struct {
	Definition
	Version     *semver.Version // nil if the version could not be parsed
	VersionText string          // first line of the version output
}

// AtLeast reports whether the tool version satisfies ">= minimum".
// Unknown versions never satisfy.
func (t Tool) AtLeast(minimum string) bool {
	if t.Version == nil {
		return false
	}
	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false
	}
	return c.Check(t.Version)
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the first dotted version number from tool output,
// e.g. "lcov: LCOV version 2.0-1" or "cmake version 3.28.3".
func ParseVersion(text string) (*semver.Version, bool) {
	match := versionPattern.FindString(text)
	if match == "" {
		return nil, false
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Probe runs the version command of each candidate in order and returns the
// first one that starts and exits zero.
func Probe(ctx context.Context, runner process.Runner, candidates ...Definition) (Tool, error) {
	var tried []string
	for _, def := range candidates {
		tried = append(tried, def.Binary)
		argv := append([]string{def.Binary}, def.VersionArgs...)
		res, err := runner.Run(ctx, process.Command{Argv: argv})
		if err != nil {
			log.Debug().Str("tool", def.Name).Err(err).Msg("probe: not available")
			continue
		}
		if res.ExitCode != 0 {
			log.Debug().Str("tool", def.Name).Int("exit", res.ExitCode).Msg("probe: version check failed")
			continue
		}

		text := strings.TrimSpace(res.Stdout)
		if text == "" {
			text = strings.TrimSpace(res.Stderr)
		}
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		tool := Tool{Definition: def, VersionText: text}
		if v, ok := ParseVersion(text); ok {
			tool.Version = v
		}
		log.Debug().Str("tool", def.Name).Str("version", text).Msg("probe: found")
		return tool, nil
	}
	return Tool{}, fmt.Errorf("none of %s is available", strings.Join(tried, ", "))
}

// Status represents the installation status of a tool on PATH.
type Status struct {
	Installed bool
	Path      string
}

// Check looks the tool binary up on PATH.
func Check(def Definition) Status {
	path, err := exec.LookPath(def.Binary)
	if err != nil {
		return Status{Installed: false}
	}
	return Status{Installed: true, Path: path}
}

// RequireOnPath returns an environment error naming every missing tool with
// its install hint.
func RequireOnPath(defs ...Definition) error {
	var missing []string
	var hints []string
	for _, def := range defs {
		if Check(def).Installed {
			continue
		}
		missing = append(missing, def.Binary)
		if def.Hint != "" {
			hints = append(hints, fmt.Sprintf("%s: %s", def.Name, def.Hint))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	msg := fmt.Sprintf("missing required tools: %s", strings.Join(missing, ", "))
	if len(hints) > 0 {
		msg += "\n  " + strings.Join(hints, "\n  ")
	}
	return errors.Environment(msg)
}
