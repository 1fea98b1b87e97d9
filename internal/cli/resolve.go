package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/manifest"
	"github.com/pyproj-tools/pyproj/internal/resolver"
)

var (
	resolveGroups  []string
	resolveSources []string
	resolveJSON    bool
)

func init() {
	resolveCmd.Flags().StringSliceVar(&resolveGroups, "group", nil,
		"Dependency groups to resolve (default: all declared groups)")
	resolveCmd.Flags().StringSliceVar(&resolveSources, "source", nil,
		"Catalog source directory (repeatable; overrides configured sources)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output the install set as JSON")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve dependencies to a concrete install set",
	Long: `Resolve the manifest's dependency groups against the package catalogs
and print the resulting install plan. Fails when the constraint set for
any package is unsatisfiable.`,
	RunE: runResolve,
}

// pinJSON is the JSON shape of one resolved pin.
type pinJSON struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Source     string   `json:"source,omitempty"`
	Direct     bool     `json:"direct"`
	RequiredBy []string `json:"required_by,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return err
	}

	ix, err := buildIndex(resolveSources)
	if err != nil {
		return err
	}

	plan, err := resolver.BuildPlan(m, ix, groupsOrNil(resolveGroups))
	if err != nil {
		return err
	}

	if resolveJSON {
		pins := make([]pinJSON, 0, len(plan.Set.Packages))
		for _, sel := range plan.Set.Packages {
			pins = append(pins, pinJSON{
				Name:       sel.Name,
				Version:    sel.Version.String(),
				Source:     sel.SourceName,
				Direct:     sel.Direct,
				RequiredBy: sel.RequiredBy,
			})
		}
		payload := map[string]interface{}{"packages": pins}
		if plan.Set.Python != nil {
			payload["python"] = plan.Set.Python.String()
		}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling install set: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	resolver.PrintPlan(cmd.OutOrStdout(), plan)
	return nil
}

// groupsOrNil maps an empty flag value to "all groups".
func groupsOrNil(groups []string) []string {
	if len(groups) == 0 {
		return nil
	}
	return groups
}
