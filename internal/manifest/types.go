package manifest

import (
	"sort"
	"strings"

	"github.com/pyproj-tools/pyproj/internal/constraint"
)

// DefaultGroup is the name under which the main dependency block
// ([tool.poetry.dependencies]) is stored.
const DefaultGroup = "main"

// PythonPackage is the pseudo-package naming the interpreter requirement.
const PythonPackage = "python"

// Manifest is the parsed form of a pyproject.toml document.
type Manifest struct {
	Project     Project
	Groups      map[string]Group // keyed by group name; DefaultGroup always present
	BuildSystem *BuildSystem
	Tools       map[string]Table // [tool.X] tables other than poetry
}

// Project holds the identity fields of [tool.poetry].
type Project struct {
	Name        string
	Version     string
	Description string
	Authors     []string
	Readme      string
	Packages    []PackageInclude
}

// PackageInclude is one entry of the packages list ({include = "aoc_tools"}).
type PackageInclude struct {
	Include string
	From    string // optional source directory
}

// Group is a named partition of dependency requirements.
type Group struct {
	Name         string
	Dependencies map[string]Dependency // keyed by package name
}

// Dependency is one requirement: a package name bound to a version range.
// The table form of a declaration may add markers (optional, python, extras).
type Dependency struct {
	Name       string
	Constraint *constraint.Constraint
	Optional   bool
	Python     *constraint.Constraint // interpreter marker, nil if unset
	Extras     []string
}

// BuildSystem is the [build-system] table.
type BuildSystem struct {
	Requires     []string
	BuildBackend string
}

// Table is a free-form tool settings namespace: option name to value
// (string, bool, integer, float, list, or nested table).
type Table map[string]interface{}

// Python returns the interpreter requirement from the default group,
// or nil when the manifest does not declare one.
func (m *Manifest) Python() *Dependency {
	main, ok := m.Groups[DefaultGroup]
	if !ok {
		return nil
	}
	if dep, ok := main.Dependencies[PythonPackage]; ok {
		return &dep
	}
	return nil
}

// GroupNames returns the declared group names with DefaultGroup first
// and the rest in sorted order.
func (m *Manifest) GroupNames() []string {
	names := make([]string, 0, len(m.Groups))
	for name := range m.Groups {
		if name != DefaultGroup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := m.Groups[DefaultGroup]; ok {
		names = append([]string{DefaultGroup}, names...)
	}
	return names
}

// CheckBackend verifies that build-backend references (or is derivable
// from) one of the distributions in build-system.requires. A backend
// module path like "poetry.core.masonry.api" is derivable from the
// distribution "poetry-core" because normalized names share a prefix.
func (b *BuildSystem) CheckBackend() error {
	if b == nil || b.BuildBackend == "" {
		return nil
	}
	backend := normalizeDistName(b.BuildBackend)
	for _, req := range b.Requires {
		dist := normalizeDistName(distNameOf(req))
		if dist != "" && strings.HasPrefix(backend, dist) {
			return nil
		}
	}
	return formatErrorf("build-system.build-backend",
		"backend %q does not reference any entry of build-system.requires %v",
		b.BuildBackend, b.Requires)
}

// distNameOf strips any version specifier from a requirement string
// ("poetry-core>=1.0" -> "poetry-core").
func distNameOf(req string) string {
	if i := strings.IndexAny(req, "><=!~^ (["); i >= 0 {
		req = req[:i]
	}
	return strings.TrimSpace(req)
}

// normalizeDistName lowercases and folds separators so that
// "poetry-core", "poetry_core", and "poetry.core" compare equal.
func normalizeDistName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", ".")
	name = strings.ReplaceAll(name, "_", ".")
	return name
}
