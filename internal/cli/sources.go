package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pyproj-tools/pyproj/internal/config"
	"github.com/pyproj-tools/pyproj/internal/resolver"
)

// buildIndex assembles the catalog index from explicit --source flags,
// falling back to the configured index sources. Earlier sources win.
func buildIndex(flagSources []string) (*resolver.Index, error) {
	paths := flagSources
	if len(paths) == 0 {
		paths = config.IndexSources()
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no index sources configured; pass --source or set %s", config.KeyIndexSources)
	}

	sources := make([]resolver.Source, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving source path %s: %w", p, err)
		}
		sources = append(sources, resolver.Source{
			Name:     filepath.Base(abs),
			BasePath: abs,
		})
	}
	return resolver.NewIndex(sources...), nil
}
