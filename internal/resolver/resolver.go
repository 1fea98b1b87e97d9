package resolver

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

// Resolve produces a concrete install set for the manifest's dependency
// groups. A nil groups slice selects every declared group; otherwise the
// named groups are resolved (the default group must be named explicitly).
//
// Resolution is deterministic and backtracking-free: every constraint
// that reaches a package is accumulated, and the highest catalog version
// satisfying the whole set is selected. When the set admits no version,
// resolution fails with *UnsatisfiableConstraintError carrying the full
// conflicting constraint set.
func Resolve(m *manifest.Manifest, ix *Index, groups []string) (*InstallSet, error) {
	set := &InstallSet{}

	// The interpreter is pinned first: package releases declare
	// interpreter requirements, so candidate filtering needs it.
	if err := selectInterpreter(m, ix, set); err != nil {
		return nil, err
	}

	chosen, err := chooseGroups(m, groups)
	if err != nil {
		return nil, err
	}

	demands := make(map[string][]Demand)
	demandSeen := make(map[string]bool)
	direct := make(map[string]bool)
	var seeds []string

	addDemand := func(pkg string, d Demand) bool {
		key := pkg + "|" + d.Constraint.String() + "|" + d.RequiredBy
		if demandSeen[key] {
			return false
		}
		demandSeen[key] = true
		demands[pkg] = append(demands[pkg], d)
		return true
	}

	for _, groupName := range chosen {
		group := m.Groups[groupName]
		for _, name := range sortedDepNames(group) {
			dep := group.Dependencies[name]
			if name == manifest.PythonPackage {
				continue // handled by selectInterpreter
			}
			if dep.Optional {
				continue // installed only on explicit request, not resolved here
			}
			if dep.Python != nil && set.Python != nil && !dep.Python.Check(set.Python) {
				continue // marker excludes the selected interpreter
			}
			if addDemand(name, Demand{Constraint: dep.Constraint, RequiredBy: "group " + groupName}) {
				direct[name] = true
				seeds = append(seeds, name)
			}
		}
	}
	seeds = dedupe(seeds)

	selected := make(map[string]*Selection)
	releases := make(map[string]*Release)
	queue := append([]string{}, seeds...)

	for len(queue) > 0 {
		sort.Strings(queue)
		name := queue[0]
		queue = queue[1:]

		pkg, err := ix.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}

		best := selectVersion(pkg, demands[name], set.Python)
		if best == nil {
			return nil, &UnsatisfiableConstraintError{Package: name, Demands: demands[name]}
		}

		if cur, ok := selected[name]; ok && cur.Version.Equal(best) {
			continue // selection unchanged; outgoing demands already placed
		}

		rel := pkg.release(best)
		selected[name] = &Selection{
			Name:       name,
			Version:    best,
			SourceName: pkg.SourceName,
			Direct:     direct[name],
		}
		releases[name] = rel

		for _, req := range rel.Requires {
			requirer := fmt.Sprintf("%s %s", name, best)
			addDemand(req.Name, Demand{Constraint: req.Constraint, RequiredBy: requirer})
			// Re-check the requirement even if already selected: the new
			// demand may invalidate the current pin.
			queue = append(queue, req.Name)
		}
	}

	// Attribute requirers and order dependencies before dependents.
	for name, sel := range selected {
		for _, d := range demands[name] {
			sel.RequiredBy = append(sel.RequiredBy, d.RequiredBy)
		}
		sort.Strings(sel.RequiredBy)
	}
	set.Packages = orderSelections(seeds, selected, releases)

	return set, nil
}

// selectInterpreter pins the Python runtime from the manifest's python
// requirement and the index's interpreter catalog. A manifest without a
// python requirement, or an index without an interpreter catalog, leaves
// the interpreter unpinned.
func selectInterpreter(m *manifest.Manifest, ix *Index, set *InstallSet) error {
	dep := m.Python()
	if dep == nil {
		return nil
	}
	cat, err := ix.Lookup(manifest.PythonPackage)
	if err != nil {
		return nil // no interpreter catalog; nothing to pin against
	}
	best := dep.Constraint.Latest(cat.Versions())
	if best == nil {
		return &UnsatisfiableConstraintError{
			Package: manifest.PythonPackage,
			Demands: []Demand{{Constraint: dep.Constraint, RequiredBy: "group " + manifest.DefaultGroup}},
		}
	}
	set.Python = best
	return nil
}

// selectVersion returns the highest release satisfying every demand and
// compatible with the selected interpreter, or nil.
func selectVersion(pkg *PackageIndex, demands []Demand, python *semver.Version) *semver.Version {
	var best *semver.Version
	for i := range pkg.Releases {
		rel := &pkg.Releases[i]
		if rel.Python != nil && python != nil && !rel.Python.Check(python) {
			continue
		}
		ok := true
		for _, d := range demands {
			if !d.Constraint.Check(rel.Version) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if best == nil || rel.Version.GreaterThan(best) {
			best = rel.Version
		}
	}
	return best
}

func chooseGroups(m *manifest.Manifest, groups []string) ([]string, error) {
	if groups == nil {
		return m.GroupNames(), nil
	}
	for _, g := range groups {
		if _, ok := m.Groups[g]; !ok {
			return nil, fmt.Errorf("unknown dependency group %q", g)
		}
	}
	return groups, nil
}

func sortedDepNames(g manifest.Group) []string {
	names := make([]string, 0, len(g.Dependencies))
	for name := range g.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// orderSelections flattens the selection graph dependencies-first,
// duplicates removed, starting from the direct requirements in sorted
// order. Already-visited nodes guard against requirement cycles.
func orderSelections(seeds []string, selected map[string]*Selection, releases map[string]*Release) []Selection {
	seen := make(map[string]bool)
	var out []Selection

	var walk func(name string)
	walk = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if rel, ok := releases[name]; ok {
			for _, req := range rel.Requires {
				walk(req.Name)
			}
		}
		if sel, ok := selected[name]; ok {
			out = append(out, *sel)
		}
	}

	sorted := append([]string{}, seeds...)
	sort.Strings(sorted)
	for _, name := range sorted {
		walk(name)
	}
	return out
}
