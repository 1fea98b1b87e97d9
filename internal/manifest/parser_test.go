package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func parseFixture(t *testing.T, name string) *Manifest {
	t.Helper()
	m, err := ParseFile(testPath(name))
	if err != nil {
		t.Fatalf("ParseFile(%s) error: %v", name, err)
	}
	return m
}

func TestParse_Identity(t *testing.T) {
	m := parseFixture(t, "valid-aoc.toml")

	if m.Project.Name != "aoc-2023" {
		t.Errorf("Name = %q, want %q", m.Project.Name, "aoc-2023")
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("Version = %q, want %q", m.Project.Version, "0.1.0")
	}
	if m.Project.Readme != "README.md" {
		t.Errorf("Readme = %q, want %q", m.Project.Readme, "README.md")
	}
	if len(m.Project.Authors) != 1 || m.Project.Authors[0] != "Alex Doe <alex@example.com>" {
		t.Errorf("Authors = %v, want one entry", m.Project.Authors)
	}
	if len(m.Project.Packages) != 1 || m.Project.Packages[0].Include != "aoc_tools" {
		t.Errorf("Packages = %v, want [{aoc_tools}]", m.Project.Packages)
	}
}

func TestParse_DependencyGroups(t *testing.T) {
	m := parseFixture(t, "valid-aoc.toml")

	main, ok := m.Groups[DefaultGroup]
	if !ok {
		t.Fatal("default group missing")
	}
	for _, pkg := range []string{"python", "networkx", "numpy"} {
		if _, ok := main.Dependencies[pkg]; !ok {
			t.Errorf("default group missing %q", pkg)
		}
	}
	if got := main.Dependencies["python"].Constraint.String(); got != "^3.11" {
		t.Errorf("python constraint = %q, want %q", got, "^3.11")
	}

	dev, ok := m.Groups["dev"]
	if !ok {
		t.Fatal("dev group missing")
	}
	if len(dev.Dependencies) != 5 {
		t.Errorf("dev group has %d dependencies, want 5", len(dev.Dependencies))
	}
	if got := dev.Dependencies["mypy"].Constraint.String(); got != "^1.8" {
		t.Errorf("mypy constraint = %q, want %q", got, "^1.8")
	}
}

func TestParse_TableFormDependencies(t *testing.T) {
	m := parseFixture(t, "valid-rich-deps.toml")

	requests := m.Groups[DefaultGroup].Dependencies["requests"]
	if got := requests.Constraint.String(); got != "^2.31" {
		t.Errorf("requests constraint = %q, want %q", got, "^2.31")
	}
	if len(requests.Extras) != 1 || requests.Extras[0] != "socks" {
		t.Errorf("requests extras = %v, want [socks]", requests.Extras)
	}

	tomli := m.Groups[DefaultGroup].Dependencies["tomli"]
	if !tomli.Optional {
		t.Error("tomli should be optional")
	}
	if tomli.Python == nil || tomli.Python.String() != "<3.11" {
		t.Errorf("tomli python marker = %v, want <3.11", tomli.Python)
	}
}

func TestParse_ToolNamespaces(t *testing.T) {
	m := parseFixture(t, "valid-aoc.toml")

	for _, tool := range []string{"isort", "mypy", "black", "pylint"} {
		if _, ok := m.Tools[tool]; !ok {
			t.Errorf("Tools missing %q namespace", tool)
		}
	}
	if _, ok := m.Tools["poetry"]; ok {
		t.Error("poetry must not appear among free-form tool namespaces")
	}

	if got := m.Tools["isort"]["line_length"]; got != int64(88) {
		t.Errorf("isort line_length = %v (%T), want 88", got, got)
	}
	if got := m.Tools["mypy"]["strict"]; got != true {
		t.Errorf("mypy strict = %v, want true", got)
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		file string
		path string
	}{
		{"invalid-syntax.toml", ""},
		{"invalid-dup-key.toml", ""},
		{"missing-poetry.toml", "tool.poetry"},
		{"invalid-constraint.toml", "tool.poetry.dependencies.requests"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(testPath(tt.file))
			if err != nil {
				t.Fatal(err)
			}
			_, err = Parse(data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not a FormatError", err)
			}
			if tt.path != "" && fe.Path != tt.path {
				t.Errorf("FormatError path = %q, want %q", fe.Path, tt.path)
			}
		})
	}
}

func TestParse_NamespaceIsolation(t *testing.T) {
	base, err := os.ReadFile(testPath("valid-aoc.toml"))
	if err != nil {
		t.Fatal(err)
	}
	extended := append([]byte{}, base...)
	extended = append(extended, []byte("\n[tool.ruff]\nselect = [\"E\", \"F\"]\nignore-magic = true\nbudget = 12\n")...)

	m1, err := Parse(base)
	if err != nil {
		t.Fatalf("Parse(base) error: %v", err)
	}
	m2, err := Parse(extended)
	if err != nil {
		t.Fatalf("Parse(extended) error: %v", err)
	}

	if _, ok := m2.Tools["ruff"]; !ok {
		t.Fatal("extended manifest missing ruff namespace")
	}

	// Every other section must be unaffected by the new namespace.
	e1, err := Encode(m1)
	if err != nil {
		t.Fatal(err)
	}
	delete(m2.Tools, "ruff")
	e2, err := Encode(m2)
	if err != nil {
		t.Fatal(err)
	}
	if string(e1) != string(e2) {
		t.Error("adding [tool.ruff] changed an unrelated section")
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(testPath("nonexistent.toml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestGroupNames(t *testing.T) {
	m := parseFixture(t, "valid-aoc.toml")
	names := m.GroupNames()
	if len(names) != 2 || names[0] != DefaultGroup || names[1] != "dev" {
		t.Errorf("GroupNames = %v, want [%s dev]", names, DefaultGroup)
	}
}

func TestPython(t *testing.T) {
	m := parseFixture(t, "valid-aoc.toml")
	py := m.Python()
	if py == nil {
		t.Fatal("Python() = nil, want the interpreter requirement")
	}
	if got := py.Constraint.String(); got != "^3.11" {
		t.Errorf("python constraint = %q, want ^3.11", got)
	}
}

func TestCheckBackend(t *testing.T) {
	tests := []struct {
		name     string
		requires []string
		backend  string
		wantErr  bool
	}{
		{"poetry core", []string{"poetry-core"}, "poetry.core.masonry.api", false},
		{"versioned requirement", []string{"poetry-core>=1.0.0"}, "poetry.core.masonry.api", false},
		{"setuptools", []string{"setuptools"}, "setuptools.build_meta", false},
		{"unrelated backend", []string{"setuptools"}, "flit_core.buildapi", true},
		{"empty backend tolerated", []string{"poetry-core"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &BuildSystem{Requires: tt.requires, BuildBackend: tt.backend}
			err := bs.CheckBackend()
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
