package toolcfg

import (
	"fmt"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

// UnknownToolSectionError reports that a manifest has no [tool.X] section
// for the requested tool. It is non-fatal by contract: accessors return
// it alongside a settings value populated with the tool's defaults, and
// callers typically proceed with those defaults.
type UnknownToolSectionError struct {
	Tool string
}

func (e *UnknownToolSectionError) Error() string {
	return fmt.Sprintf("manifest has no [tool.%s] section", e.Tool)
}

// Lookup returns the raw settings table for a tool namespace.
func Lookup(m *manifest.Manifest, tool string) (manifest.Table, error) {
	table, ok := m.Tools[tool]
	if !ok {
		return nil, &UnknownToolSectionError{Tool: tool}
	}
	return table, nil
}

// Isort is the [tool.isort] namespace.
type Isort struct {
	Profile         string
	LineLength      int
	KnownFirstParty []string
	Raw             manifest.Table // full table, unknown keys included
}

// Mypy is the [tool.mypy] namespace.
type Mypy struct {
	Strict               bool
	PythonVersion        string
	IgnoreMissingImports bool
	Raw                  manifest.Table
}

// Black is the [tool.black] namespace.
type Black struct {
	LineLength    int
	TargetVersion []string
	Preview       bool
	Raw           manifest.Table
}

// Pylint is the [tool.pylint] namespace. Options live in the nested
// main table ([tool.pylint.main]).
type Pylint struct {
	MaxLineLength int
	Jobs          int
	Disable       []string
	Raw           manifest.Table
}

// Pytest is the [tool.pytest] namespace with its nested ini_options table.
type Pytest struct {
	Addopts   string
	TestPaths []string
	Raw       manifest.Table
}

// IsortSettings reads [tool.isort]. When the section is absent, the
// returned settings hold isort's defaults and the error is a
// *UnknownToolSectionError.
func IsortSettings(m *manifest.Manifest) (*Isort, error) {
	s := &Isort{LineLength: 79}
	table, err := Lookup(m, "isort")
	if err != nil {
		return s, err
	}
	s.Raw = table
	s.Profile = getString(table, "profile", s.Profile)
	s.LineLength = getInt(table, "line_length", s.LineLength)
	s.KnownFirstParty = getStringList(table, "known_first_party")
	return s, nil
}

// MypySettings reads [tool.mypy].
func MypySettings(m *manifest.Manifest) (*Mypy, error) {
	s := &Mypy{}
	table, err := Lookup(m, "mypy")
	if err != nil {
		return s, err
	}
	s.Raw = table
	s.Strict = getBool(table, "strict", s.Strict)
	s.PythonVersion = getString(table, "python_version", s.PythonVersion)
	s.IgnoreMissingImports = getBool(table, "ignore_missing_imports", s.IgnoreMissingImports)
	return s, nil
}

// BlackSettings reads [tool.black].
func BlackSettings(m *manifest.Manifest) (*Black, error) {
	s := &Black{LineLength: 88}
	table, err := Lookup(m, "black")
	if err != nil {
		return s, err
	}
	s.Raw = table
	s.LineLength = getInt(table, "line-length", s.LineLength)
	s.TargetVersion = getStringList(table, "target-version")
	s.Preview = getBool(table, "preview", s.Preview)
	return s, nil
}

// PylintSettings reads [tool.pylint.main].
func PylintSettings(m *manifest.Manifest) (*Pylint, error) {
	s := &Pylint{MaxLineLength: 100, Jobs: 1}
	table, err := Lookup(m, "pylint")
	if err != nil {
		return s, err
	}
	s.Raw = table

	main, ok := table["main"].(map[string]interface{})
	if !ok {
		// A [tool.pylint] without main is treated as empty settings.
		return s, nil
	}
	s.MaxLineLength = getInt(main, "max-line-length", s.MaxLineLength)
	s.Jobs = getInt(main, "jobs", s.Jobs)
	s.Disable = getStringList(main, "disable")
	return s, nil
}

// PytestSettings reads [tool.pytest.ini_options].
func PytestSettings(m *manifest.Manifest) (*Pytest, error) {
	s := &Pytest{}
	table, err := Lookup(m, "pytest")
	if err != nil {
		return s, err
	}
	s.Raw = table

	ini, ok := table["ini_options"].(map[string]interface{})
	if !ok {
		return s, nil
	}
	s.Addopts = getString(ini, "addopts", s.Addopts)
	s.TestPaths = getStringList(ini, "testpaths")
	return s, nil
}

// getString returns the string at key, or fallback when absent or not a
// string. Unknown or mistyped keys are tolerated per each tool's policy.
func getString(table map[string]interface{}, key, fallback string) string {
	if s, ok := table[key].(string); ok {
		return s
	}
	return fallback
}

func getBool(table map[string]interface{}, key string, fallback bool) bool {
	if b, ok := table[key].(bool); ok {
		return b
	}
	return fallback
}

// getInt accepts both int64 (what the TOML decoder produces) and int.
func getInt(table map[string]interface{}, key string, fallback int) int {
	switch n := table[key].(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

func getStringList(table map[string]interface{}, key string) []string {
	raw, ok := table[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
