package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a parsed manifest summary",
	Long:  `Parse the manifest and print its identity, dependency groups, build-system, and tool namespaces.`,
	RunE:  runShow,
}

// showSummary is the JSON shape of the summary output.
type showSummary struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description,omitempty"`
	Authors     []string            `json:"authors,omitempty"`
	Groups      map[string][]string `json:"groups"`
	Tools       []string            `json:"tools"`
	Backend     string              `json:"build_backend,omitempty"`
}

func runShow(cmd *cobra.Command, args []string) error {
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return err
	}

	summary := showSummary{
		Name:        m.Project.Name,
		Version:     m.Project.Version,
		Description: m.Project.Description,
		Authors:     m.Project.Authors,
		Groups:      make(map[string][]string),
		Tools:       toolNames(m),
	}
	for name, group := range m.Groups {
		deps := make([]string, 0, len(group.Dependencies))
		for _, dep := range group.Dependencies {
			deps = append(deps, fmt.Sprintf("%s %s", dep.Name, dep.Constraint))
		}
		sort.Strings(deps)
		summary.Groups[name] = deps
	}
	if m.BuildSystem != nil {
		summary.Backend = m.BuildSystem.BuildBackend
	}

	if showJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", summary.Name)
	fmt.Fprintf(w, "Version:\t%s\n", summary.Version)
	if summary.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", summary.Description)
	}
	if len(summary.Authors) > 0 {
		fmt.Fprintf(w, "Authors:\t%s\n", strings.Join(summary.Authors, ", "))
	}
	if summary.Backend != "" {
		fmt.Fprintf(w, "Backend:\t%s\n", summary.Backend)
	}
	for _, name := range m.GroupNames() {
		fmt.Fprintf(w, "Group %s:\t%s\n", name, strings.Join(summary.Groups[name], ", "))
	}
	if len(summary.Tools) > 0 {
		fmt.Fprintf(w, "Tool namespaces:\t%s\n", strings.Join(summary.Tools, ", "))
	}
	return w.Flush()
}

func toolNames(m *manifest.Manifest) []string {
	names := make([]string, 0, len(m.Tools))
	for name := range m.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
