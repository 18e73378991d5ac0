package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables that override file values.
const (
	EnvTimeout       = "AI_TEST_RUNNER_TIMEOUT"
	EnvCoverageTools = "AI_TEST_RUNNER_COVERAGE_TOOLS"
	EnvUnityDir      = "AI_TEST_RUNNER_UNITY_DIR"
)

// LoadDotEnv loads <repoPath>/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(repoPath string) error {
	path := filepath.Join(repoPath, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().Str("path", path).Msg("config: loaded .env")
	return nil
}

// applyEnvOverrides replaces file values with environment values.
// AI_TEST_RUNNER_COVERAGE_TOOLS=none disables coverage.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return &ValidationError{Field: EnvTimeout, Message: err.Error()}
		}
		cfg.Tests.Timeout.Duration = d
	}
	if v, ok := lookup(EnvCoverageTools); ok && v != "" {
		tools := []string{}
		if strings.TrimSpace(v) != "none" {
			for _, tool := range strings.Split(v, ",") {
				if tool = strings.TrimSpace(tool); tool != "" {
					tools = append(tools, tool)
				}
			}
		}
		cfg.Coverage.Tools = tools
	}
	if v, ok := lookup(EnvUnityDir); ok && v != "" {
		cfg.Paths.Unity = v
	}
	return nil
}
