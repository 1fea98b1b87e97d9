package resolver

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pyproj-tools/pyproj/internal/constraint"
)

// Source is a location to search for package catalogs. Sources are
// consulted in slice order; the first catalog found for a package wins.
type Source struct {
	Name     string // e.g., "default", "corp-mirror"
	BasePath string // absolute path to the source root
}

// Requirement is one edge of the dependency graph: a package name bound
// to a version range.
type Requirement struct {
	Name       string
	Constraint *constraint.Constraint
}

// Release is one published version of a package as listed in a catalog.
type Release struct {
	Version  *semver.Version
	Python   *constraint.Constraint // interpreter requirement, nil if unset
	Requires []Requirement
}

// PackageIndex is the full catalog entry for one package.
type PackageIndex struct {
	Name       string
	SourceName string
	Releases   []Release
}

// Versions returns the release versions of the catalog entry.
func (p *PackageIndex) Versions() []*semver.Version {
	out := make([]*semver.Version, 0, len(p.Releases))
	for _, r := range p.Releases {
		out = append(out, r.Version)
	}
	return out
}

// release returns the Release matching the version, or nil.
func (p *PackageIndex) release(v *semver.Version) *Release {
	for i := range p.Releases {
		if p.Releases[i].Version.Equal(v) {
			return &p.Releases[i]
		}
	}
	return nil
}

// Demand is one constraint placed on a package, attributed to whoever
// required it: a dependency group for direct requirements, or
// "pkg version" for transitive ones.
type Demand struct {
	Constraint *constraint.Constraint
	RequiredBy string
}

func (d Demand) String() string {
	return fmt.Sprintf("%s (required by %s)", d.Constraint, d.RequiredBy)
}

// Selection is one resolved package pin.
type Selection struct {
	Name       string
	Version    *semver.Version
	SourceName string
	Direct     bool     // named in the manifest, not only reached transitively
	RequiredBy []string // requirer attribution, sorted
}

// InstallSet is the outcome of resolution: a concrete, consistent set of
// package pins, dependencies before dependents.
type InstallSet struct {
	Python   *semver.Version // selected interpreter, nil if not constrained
	Packages []Selection
}

// Selection returns the pin for a package name, or nil.
func (s *InstallSet) Selection(name string) *Selection {
	for i := range s.Packages {
		if s.Packages[i].Name == name {
			return &s.Packages[i]
		}
	}
	return nil
}

// UnsatisfiableConstraintError reports that no catalog version of a
// package satisfies every constraint placed on it. The Demands slice is
// the full conflicting constraint set.
type UnsatisfiableConstraintError struct {
	Package string
	Demands []Demand
}

func (e *UnsatisfiableConstraintError) Error() string {
	parts := make([]string, 0, len(e.Demands))
	for _, d := range e.Demands {
		parts = append(parts, d.String())
	}
	return fmt.Sprintf("no version of %s satisfies: %s",
		e.Package, strings.Join(parts, "; "))
}
