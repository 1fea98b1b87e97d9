package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pyproj-tools/pyproj/internal/constraint"
)

// Parse decodes a pyproject.toml document into a Manifest.
// Malformed TOML and duplicate keys fail with *FormatError, as do
// structural problems such as a missing [tool.poetry] table or an
// invalid version-constraint string.
func Parse(data []byte) (*Manifest, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Err: err}
	}
	return fromDocument(doc)
}

// ParseFile reads and parses a pyproject.toml file.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// fromDocument converts the raw decoded document into the typed model.
func fromDocument(doc map[string]interface{}) (*Manifest, error) {
	tool, ok := asTable(doc["tool"])
	if !ok {
		return nil, formatErrorf("tool", "missing [tool] table")
	}

	poetry, ok := asTable(tool["poetry"])
	if !ok {
		return nil, formatErrorf("tool.poetry", "missing [tool.poetry] table")
	}

	m := &Manifest{
		Groups: make(map[string]Group),
		Tools:  make(map[string]Table),
	}

	if err := convertProject(poetry, &m.Project); err != nil {
		return nil, err
	}

	// Default dependency group.
	if raw, ok := poetry["dependencies"]; ok {
		group, err := convertGroup(DefaultGroup, raw, "tool.poetry.dependencies")
		if err != nil {
			return nil, err
		}
		m.Groups[DefaultGroup] = group
	}

	// Named groups: [tool.poetry.group.<name>.dependencies].
	if rawGroups, ok := poetry["group"]; ok {
		groups, ok := asTable(rawGroups)
		if !ok {
			return nil, formatErrorf("tool.poetry.group", "expected a table")
		}
		for name, rawGroup := range groups {
			path := "tool.poetry.group." + name
			body, ok := asTable(rawGroup)
			if !ok {
				return nil, formatErrorf(path, "expected a table")
			}
			if name == DefaultGroup {
				return nil, formatErrorf(path, "group name %q collides with the default group", name)
			}
			deps, ok := body["dependencies"]
			if !ok {
				return nil, formatErrorf(path, "missing dependencies table")
			}
			group, err := convertGroup(name, deps, path+".dependencies")
			if err != nil {
				return nil, err
			}
			m.Groups[name] = group
		}
	}

	// Free-form tool namespaces. Each namespace is isolated: its contents
	// never influence parsing of any other section.
	for name, raw := range tool {
		if name == "poetry" {
			continue
		}
		table, ok := asTable(raw)
		if !ok {
			return nil, formatErrorf("tool."+name, "expected a table")
		}
		m.Tools[name] = Table(table)
	}

	if raw, ok := doc["build-system"]; ok {
		bs, err := convertBuildSystem(raw)
		if err != nil {
			return nil, err
		}
		m.BuildSystem = bs
	}

	return m, nil
}

func convertProject(poetry map[string]interface{}, p *Project) error {
	var err error
	if p.Name, err = optString(poetry, "name", "tool.poetry.name"); err != nil {
		return err
	}
	if p.Version, err = optString(poetry, "version", "tool.poetry.version"); err != nil {
		return err
	}
	if p.Description, err = optString(poetry, "description", "tool.poetry.description"); err != nil {
		return err
	}
	if p.Readme, err = optString(poetry, "readme", "tool.poetry.readme"); err != nil {
		return err
	}
	if p.Authors, err = optStringSlice(poetry, "authors", "tool.poetry.authors"); err != nil {
		return err
	}

	raw, ok := poetry["packages"]
	if !ok {
		return nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return formatErrorf("tool.poetry.packages", "expected an array of tables")
	}
	for i, item := range list {
		entry, ok := asTable(item)
		if !ok {
			return formatErrorf(fmt.Sprintf("tool.poetry.packages[%d]", i), "expected a table")
		}
		include, _ := entry["include"].(string)
		if include == "" {
			return formatErrorf(fmt.Sprintf("tool.poetry.packages[%d]", i), "missing include")
		}
		from, _ := entry["from"].(string)
		p.Packages = append(p.Packages, PackageInclude{Include: include, From: from})
	}
	return nil
}

func convertGroup(name string, raw interface{}, path string) (Group, error) {
	table, ok := asTable(raw)
	if !ok {
		return Group{}, formatErrorf(path, "expected a table")
	}

	group := Group{
		Name:         name,
		Dependencies: make(map[string]Dependency, len(table)),
	}
	for pkg, value := range table {
		dep, err := convertDependency(pkg, value, path+"."+pkg)
		if err != nil {
			return Group{}, err
		}
		group.Dependencies[pkg] = dep
	}
	return group, nil
}

// convertDependency accepts both declaration forms: the string shorthand
// (requests = "^2.31") and the table form
// (requests = {version = "^2.31", optional = true, python = "^3.11"}).
func convertDependency(name string, raw interface{}, path string) (Dependency, error) {
	dep := Dependency{Name: name}

	switch v := raw.(type) {
	case string:
		c, err := constraint.Parse(v)
		if err != nil {
			return Dependency{}, &FormatError{Path: path, Err: err}
		}
		dep.Constraint = c
		return dep, nil

	case map[string]interface{}:
		version, _ := v["version"].(string)
		if version == "" {
			return Dependency{}, formatErrorf(path, "missing version constraint")
		}
		c, err := constraint.Parse(version)
		if err != nil {
			return Dependency{}, &FormatError{Path: path + ".version", Err: err}
		}
		dep.Constraint = c

		if optional, ok := v["optional"]; ok {
			b, ok := optional.(bool)
			if !ok {
				return Dependency{}, formatErrorf(path+".optional", "expected a boolean")
			}
			dep.Optional = b
		}

		if python, ok := v["python"]; ok {
			s, ok := python.(string)
			if !ok {
				return Dependency{}, formatErrorf(path+".python", "expected a string")
			}
			pc, err := constraint.Parse(s)
			if err != nil {
				return Dependency{}, &FormatError{Path: path + ".python", Err: err}
			}
			dep.Python = pc
		}

		if extras, ok := v["extras"]; ok {
			list, ok := extras.([]interface{})
			if !ok {
				return Dependency{}, formatErrorf(path+".extras", "expected an array of strings")
			}
			for _, e := range list {
				s, ok := e.(string)
				if !ok {
					return Dependency{}, formatErrorf(path+".extras", "expected an array of strings")
				}
				dep.Extras = append(dep.Extras, s)
			}
		}
		return dep, nil

	default:
		return Dependency{}, formatErrorf(path, "expected a version string or a table, got %T", raw)
	}
}

func convertBuildSystem(raw interface{}) (*BuildSystem, error) {
	table, ok := asTable(raw)
	if !ok {
		return nil, formatErrorf("build-system", "expected a table")
	}

	bs := &BuildSystem{}
	var err error
	if bs.Requires, err = optStringSlice(table, "requires", "build-system.requires"); err != nil {
		return nil, err
	}
	if bs.BuildBackend, err = optString(table, "build-backend", "build-system.build-backend"); err != nil {
		return nil, err
	}
	return bs, nil
}

func asTable(v interface{}) (map[string]interface{}, bool) {
	table, ok := v.(map[string]interface{})
	return table, ok
}

func optString(table map[string]interface{}, key, path string) (string, error) {
	raw, ok := table[key]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", formatErrorf(path, "expected a string, got %T", raw)
	}
	return s, nil
}

func optStringSlice(table map[string]interface{}, key, path string) ([]string, error) {
	raw, ok := table[key]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, formatErrorf(path, "expected an array of strings, got %T", raw)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, formatErrorf(path, "expected an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
