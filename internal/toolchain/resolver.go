package toolchain

import (
	"fmt"
	"sort"
)

// Resolver maps tool names to definitions, applying configured binary paths.
type Resolver struct {
	overrides map[string]string
}

// NewResolver creates a resolver. overrides maps a built-in tool name to the
// executable that should be run instead of the default binary name.
func NewResolver(overrides map[string]string) (*Resolver, error) {
	r := &Resolver{overrides: make(map[string]string, len(overrides))}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !IsBuiltin(name) {
			return nil, fmt.Errorf("unknown tool %q (known: %v)", name, List())
		}
		if overrides[name] == "" {
			return nil, fmt.Errorf("tool %q: empty path", name)
		}
		r.overrides[name] = overrides[name]
	}

	return r, nil
}

// Resolve gets a tool definition by name with overrides applied.
func (r *Resolver) Resolve(name string) (Definition, error) {
	def, ok := Get(name)
	if !ok {
		return Definition{}, fmt.Errorf("unknown tool: %q", name)
	}
	if bin, ok := r.overrides[name]; ok {
		def.Binary = bin
	}
	return def, nil
}

// Binary returns the executable to run for a tool, or the name itself when
// the tool is unknown.
func (r *Resolver) Binary(name string) string {
	def, err := r.Resolve(name)
	if err != nil {
		return name
	}
	return def.Binary
}
