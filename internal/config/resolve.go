package config

import (
	"os"

	"github.com/rs/zerolog/log"
)

// ResolveOptions controls where configuration comes from.
type ResolveOptions struct {
	RepoPath string
	// Path is an explicit config file; when empty the repository is searched.
	Path string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Resolved is the effective configuration and its provenance.
type Resolved struct {
	Config   *Config
	Path     string // config file used, empty if none
	Warnings []string
}

// Resolve loads the config file (if any), applies environment overrides and
// defaults, and validates the result. Call LoadDotEnv first to honour .env.
// Precedence, lowest first: defaults, file, environment. Flags are applied
// by the caller.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	path := opts.Path
	if path == "" {
		if found, ok := Discover(opts.RepoPath); ok {
			path = found
		}
	}

	res := &Resolved{Path: path}
	if path == "" {
		res.Config = &Config{}
	} else {
		cfg, warnings, err := Load(path)
		if err != nil {
			return nil, err
		}
		res.Config = cfg
		res.Warnings = warnings
		log.Debug().Str("path", path).Int("warnings", len(warnings)).Msg("config: loaded")
	}

	if err := applyEnvOverrides(res.Config, lookup); err != nil {
		return nil, err
	}
	applyDefaults(res.Config)

	if err := Validate(res.Config); err != nil {
		return nil, err
	}
	return res, nil
}
