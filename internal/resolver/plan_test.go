package resolver

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildPlan_Tree(t *testing.T) {
	m := parseManifest(t, `
[tool.poetry]
name = "web"
version = "0.1.0"

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"
idna = "^3.0"
`)

	plan, err := BuildPlan(m, testIndex(t), nil)
	if err != nil {
		t.Fatalf("BuildPlan error: %v", err)
	}

	if len(plan.Roots) != 2 {
		t.Fatalf("roots = %d, want 2 (idna, requests)", len(plan.Roots))
	}
	if plan.Roots[0].Name != "idna" || plan.Roots[1].Name != "requests" {
		t.Errorf("root order = [%s %s], want [idna requests]", plan.Roots[0].Name, plan.Roots[1].Name)
	}

	requests := plan.Roots[1]
	if len(requests.Children) != 2 {
		t.Fatalf("requests children = %d, want 2", len(requests.Children))
	}
	// idna already appeared as a root, so under requests it is deduped.
	var sawDeduped bool
	for _, child := range requests.Children {
		if child.Name == "idna" && child.Deduped {
			sawDeduped = true
		}
	}
	if !sawDeduped {
		t.Error("idna under requests not marked deduped")
	}
}

func TestPrintPlan(t *testing.T) {
	m := parseManifest(t, baseManifest)

	plan, err := BuildPlan(m, testIndex(t), nil)
	if err != nil {
		t.Fatalf("BuildPlan error: %v", err)
	}

	var buf bytes.Buffer
	PrintPlan(&buf, plan)
	out := buf.String()

	for _, want := range []string{
		"Resolving dependencies...",
		"networkx 3.3.0",
		"numpy 1.26.4",
		"pytest 7.4.4",
		"Install: 3 packages (3 direct, 0 transitive)",
		"Runtime: python 3.12.1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan output missing %q:\n%s", want, out)
		}
	}
}
