// Package toolchain describes the external programs the runner drives and
// probes whether they are installed.
package toolchain

import "sort"

// Names of the built-in tools.
const (
	CMake   = "cmake"
	Lcov    = "lcov"
	Genhtml = "genhtml"
	Gcovr   = "gcovr"
)

// Definition describes an external tool.
type Definition struct {
	Name        string
	Binary      string   // executable name or path
	VersionArgs []string // arguments that print the version and exit 0
	Hint        string   // install hint shown when the tool is missing
}

var builtinTools = map[string]*Definition{
	CMake: {
		Name:        CMake,
		Binary:      "cmake",
		VersionArgs: []string{"--version"},
		Hint:        "install CMake from https://cmake.org/download/ (apt install cmake, brew install cmake)",
	},
	Lcov: {
		Name:        Lcov,
		Binary:      "lcov",
		VersionArgs: []string{"--version"},
		Hint:        "install lcov (apt install lcov, brew install lcov)",
	},
	Genhtml: {
		Name:        Genhtml,
		Binary:      "genhtml",
		VersionArgs: []string{"--version"},
		Hint:        "genhtml ships with lcov",
	},
	Gcovr: {
		Name:        Gcovr,
		Binary:      "gcovr",
		VersionArgs: []string{"--version"},
		Hint:        "install gcovr (pip install gcovr)",
	},
}

// Get retrieves a built-in tool definition by name.
// The returned definition is a copy.
func Get(name string) (Definition, bool) {
	def, ok := builtinTools[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// List returns the names of all built-in tools, sorted.
func List() []string {
	names := make([]string, 0, len(builtinTools))
	for name := range builtinTools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin checks if a tool name is a built-in tool.
func IsBuiltin(name string) bool {
	_, ok := builtinTools[name]
	return ok
}
