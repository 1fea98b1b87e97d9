package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pyproj-tools/pyproj/internal/constraint"
)

// catalogFile is the on-disk YAML shape of a package catalog
// (<source>/packages/<name>.yaml).
type catalogFile struct {
	Package  string `yaml:"package"`
	Releases []struct {
		Version  string            `yaml:"version"`
		Python   string            `yaml:"python,omitempty"`
		Requires map[string]string `yaml:"requires,omitempty"`
	} `yaml:"releases"`
}

// Index resolves package names to catalogs across prioritized sources.
// Lookups are cached; an Index is not safe for concurrent use.
type Index struct {
	sources []Source
	cache   map[string]*PackageIndex
}

// NewIndex creates an Index over the given sources. Sources are searched
// in argument order (first source = highest priority).
func NewIndex(sources ...Source) *Index {
	return &Index{
		sources: sources,
		cache:   make(map[string]*PackageIndex),
	}
}

// Lookup finds the catalog for a package across sources in priority order.
func (ix *Index) Lookup(name string) (*PackageIndex, error) {
	if p, ok := ix.cache[name]; ok {
		return p, nil
	}

	for _, src := range ix.sources {
		path := filepath.Join(src.BasePath, "packages", name+".yaml")
		if _, err := os.Stat(path); err != nil {
			continue // not in this source
		}
		p, err := loadCatalog(path, name, src.Name)
		if err != nil {
			return nil, err
		}
		ix.cache[name] = p
		return p, nil
	}

	return nil, fmt.Errorf("package %q not found in any source", name)
}

// Has reports whether any source carries a catalog for the package.
func (ix *Index) Has(name string) bool {
	_, err := ix.Lookup(name)
	return err == nil
}

// loadCatalog reads and converts one catalog file.
func loadCatalog(path, name, sourceName string) (*PackageIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if file.Package != "" && file.Package != name {
		return nil, fmt.Errorf("catalog %s declares package %q, expected %q", path, file.Package, name)
	}

	p := &PackageIndex{
		Name:       name,
		SourceName: sourceName,
	}
	for i, rel := range file.Releases {
		v, err := constraint.ParseVersion(rel.Version)
		if err != nil {
			return nil, fmt.Errorf("catalog %s release %d: %w", path, i, err)
		}
		release := Release{Version: v}

		if rel.Python != "" {
			pc, err := constraint.Parse(rel.Python)
			if err != nil {
				return nil, fmt.Errorf("catalog %s release %s python: %w", path, rel.Version, err)
			}
			release.Python = pc
		}

		for dep, rng := range rel.Requires {
			c, err := constraint.Parse(rng)
			if err != nil {
				return nil, fmt.Errorf("catalog %s release %s requires %s: %w", path, rel.Version, dep, err)
			}
			release.Requires = append(release.Requires, Requirement{Name: dep, Constraint: c})
		}
		// Map iteration order is random; keep requirement order stable.
		sort.Slice(release.Requires, func(a, b int) bool {
			return release.Requires[a].Name < release.Requires[b].Name
		})

		p.Releases = append(p.Releases, release)
	}

	return p, nil
}
