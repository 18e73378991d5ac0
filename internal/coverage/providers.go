package coverage

import (
	"fmt"

	"github.com/ctestkit/aitestrunner/internal/config"
	"github.com/ctestkit/aitestrunner/internal/process"
	"github.com/ctestkit/aitestrunner/internal/toolchain"
)

// NewProviders builds the providers named in cfg.Tools, in order.
// An empty list disables coverage.
func NewProviders(cfg config.CoverageConfig, resolver *toolchain.Resolver, runner process.Runner) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfg.Tools))
	for _, name := range cfg.Tools {
		switch name {
		case toolchain.Lcov:
			lcov, err := resolver.Resolve(toolchain.Lcov)
			if err != nil {
				return nil, err
			}
			genhtml, err := resolver.Resolve(toolchain.Genhtml)
			if err != nil {
				return nil, err
			}
			providers = append(providers, &Lcov{
				Runner:  runner,
				Lcov:    lcov,
				Genhtml: genhtml,
				Remove:  cfg.Lcov.Remove,
				Extract: cfg.Lcov.Extract,
			})
		case toolchain.Gcovr:
			gcovr, err := resolver.Resolve(toolchain.Gcovr)
			if err != nil {
				return nil, err
			}
			providers = append(providers, &Gcovr{
				Runner:  runner,
				Gcovr:   gcovr,
				Filter:  cfg.Gcovr.Filter,
				Exclude: cfg.Gcovr.Exclude,
			})
		default:
			return nil, fmt.Errorf("unknown coverage tool %q", name)
		}
	}
	return providers, nil
}
