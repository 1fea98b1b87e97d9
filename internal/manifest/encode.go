package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Encode serializes a Manifest back to TOML. The output is canonical
// (tables and keys sorted), and parsing it again yields a Manifest
// semantically equal to the input: same sections, keys, and values.
func Encode(m *Manifest) ([]byte, error) {
	doc := make(map[string]interface{})

	poetry := make(map[string]interface{})
	if m.Project.Name != "" {
		poetry["name"] = m.Project.Name
	}
	if m.Project.Version != "" {
		poetry["version"] = m.Project.Version
	}
	if m.Project.Description != "" {
		poetry["description"] = m.Project.Description
	}
	if m.Project.Readme != "" {
		poetry["readme"] = m.Project.Readme
	}
	if len(m.Project.Authors) > 0 {
		poetry["authors"] = m.Project.Authors
	}
	if len(m.Project.Packages) > 0 {
		packages := make([]interface{}, 0, len(m.Project.Packages))
		for _, p := range m.Project.Packages {
			entry := map[string]interface{}{"include": p.Include}
			if p.From != "" {
				entry["from"] = p.From
			}
			packages = append(packages, entry)
		}
		poetry["packages"] = packages
	}

	if main, ok := m.Groups[DefaultGroup]; ok {
		poetry["dependencies"] = encodeDependencies(main.Dependencies)
	}

	named := make(map[string]interface{})
	for name, group := range m.Groups {
		if name == DefaultGroup {
			continue
		}
		named[name] = map[string]interface{}{
			"dependencies": encodeDependencies(group.Dependencies),
		}
	}
	if len(named) > 0 {
		poetry["group"] = named
	}

	tool := map[string]interface{}{"poetry": poetry}
	for name, table := range m.Tools {
		tool[name] = map[string]interface{}(table)
	}
	doc["tool"] = tool

	if m.BuildSystem != nil {
		bs := make(map[string]interface{})
		if len(m.BuildSystem.Requires) > 0 {
			bs["requires"] = m.BuildSystem.Requires
		}
		if m.BuildSystem.BuildBackend != "" {
			bs["build-backend"] = m.BuildSystem.BuildBackend
		}
		doc["build-system"] = bs
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return out, nil
}

// encodeDependencies uses the string shorthand where the declaration has
// no markers, and the table form otherwise.
func encodeDependencies(deps map[string]Dependency) map[string]interface{} {
	out := make(map[string]interface{}, len(deps))
	for name, dep := range deps {
		if !dep.Optional && dep.Python == nil && len(dep.Extras) == 0 {
			out[name] = dep.Constraint.String()
			continue
		}
		entry := map[string]interface{}{"version": dep.Constraint.String()}
		if dep.Optional {
			entry["optional"] = true
		}
		if dep.Python != nil {
			entry["python"] = dep.Python.String()
		}
		if len(dep.Extras) > 0 {
			entry["extras"] = dep.Extras
		}
		out[name] = entry
	}
	return out
}
