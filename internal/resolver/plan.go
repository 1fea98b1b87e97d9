package resolver

import (
	"fmt"
	"io"
	"sort"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

// PlanNode is one node of the displayable resolution tree.
type PlanNode struct {
	Name     string
	Version  string
	Children []*PlanNode
	Deduped  bool // true if this package appeared earlier in the tree
}

// Plan pairs an install set with its display tree.
type Plan struct {
	Set   *InstallSet
	Roots []*PlanNode // one per direct requirement, sorted by name
}

// BuildPlan resolves the manifest and arranges the result as a tree of
// direct requirements with their transitive requirements below them.
func BuildPlan(m *manifest.Manifest, ix *Index, groups []string) (*Plan, error) {
	set, err := Resolve(m, ix, groups)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Set: set}
	seen := make(map[string]bool)

	var roots []string
	for _, sel := range set.Packages {
		if sel.Direct {
			roots = append(roots, sel.Name)
		}
	}
	sort.Strings(roots)

	for _, name := range roots {
		plan.Roots = append(plan.Roots, buildPlanNode(name, set, ix, seen))
	}
	return plan, nil
}

func buildPlanNode(name string, set *InstallSet, ix *Index, seen map[string]bool) *PlanNode {
	sel := set.Selection(name)
	node := &PlanNode{Name: name}
	if sel != nil {
		node.Version = sel.Version.String()
	}

	if seen[name] {
		node.Deduped = true
		return node
	}
	seen[name] = true

	if sel == nil {
		return node
	}
	pkg, err := ix.Lookup(name)
	if err != nil {
		return node
	}
	rel := pkg.release(sel.Version)
	if rel == nil {
		return node
	}
	for _, req := range rel.Requires {
		if set.Selection(req.Name) == nil {
			continue
		}
		node.Children = append(node.Children, buildPlanNode(req.Name, set, ix, seen))
	}
	return node
}

// PrintTree prints the resolution tree with box-drawing characters.
func PrintTree(w io.Writer, node *PlanNode, prefix string, isLast bool) {
	if node == nil {
		return
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	label := fmt.Sprintf("%s %s", node.Name, node.Version)
	if node.Deduped {
		label += " (deduped)"
	}

	// For a root node, don't print a connector.
	if prefix == "" {
		fmt.Fprintf(w, "  %s\n", label)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
	}

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range node.Children {
		PrintTree(w, child, childPrefix, i == len(node.Children)-1)
	}
}

// PrintPlan prints the full resolution summary.
func PrintPlan(w io.Writer, plan *Plan) {
	fmt.Fprintln(w, "Resolving dependencies...")
	fmt.Fprintln(w)

	for i, root := range plan.Roots {
		PrintTree(w, root, "", i == len(plan.Roots)-1)
	}
	fmt.Fprintln(w)

	directCount := 0
	for _, sel := range plan.Set.Packages {
		if sel.Direct {
			directCount++
		}
	}
	transitive := len(plan.Set.Packages) - directCount

	summary := fmt.Sprintf("  Install: %d packages (%d direct, %d transitive)",
		len(plan.Set.Packages), directCount, transitive)
	fmt.Fprintln(w, summary)

	if plan.Set.Python != nil {
		fmt.Fprintf(w, "  Runtime: %s %s\n", manifest.PythonPackage, plan.Set.Python)
	}
	fmt.Fprintln(w)
}
