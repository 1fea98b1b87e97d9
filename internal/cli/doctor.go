package cli

import (
	"fmt"
	"os/exec"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the project's toolchain",
	Long: `Check that the interpreter and the development tools the manifest
declares are available on PATH, and that the manifest itself is valid.`,
	RunE: runDoctor,
}

// knownExecutables maps dependency names to the binary each one installs.
// Only dev-group entries with a known binary are checked; libraries have
// nothing to look up on PATH.
var knownExecutables = map[string]string{
	"black":  "black",
	"isort":  "isort",
	"mypy":   "mypy",
	"pylint": "pylint",
	"pytest": "pytest",
	"ruff":   "ruff",
	"flake8": "flake8",
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	missing := 0

	// Manifest health first: everything else reads it.
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return fmt.Errorf("manifest check failed: %w", err)
	}
	result, err := manifest.ValidateFile(manifestPath)
	if err != nil {
		return err
	}
	if result.Valid {
		fmt.Fprintf(out, "  ✓ %s parses and validates\n", manifestPath)
	} else {
		missing++
		fmt.Fprintf(out, "  ✗ %s has %d schema issue(s); run check for details\n",
			manifestPath, len(result.Issues))
	}

	// Interpreter.
	if lookupAny("python3", "python") {
		fmt.Fprintln(out, "  ✓ python interpreter on PATH")
	} else {
		missing++
		fmt.Fprintln(out, "  ✗ python interpreter not found on PATH")
	}

	// Dev tools named in the manifest.
	for _, name := range declaredExecutables(m) {
		if _, err := exec.LookPath(knownExecutables[name]); err == nil {
			fmt.Fprintf(out, "  ✓ %s\n", name)
		} else {
			missing++
			fmt.Fprintf(out, "  ✗ %s (declared in the manifest, not on PATH)\n", name)
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d problem(s) found", missing)
	}
	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}

// declaredExecutables returns the manifest dependencies that correspond
// to known command-line tools, deduplicated across groups and sorted.
func declaredExecutables(m *manifest.Manifest) []string {
	seen := make(map[string]bool)
	var names []string
	for _, group := range m.Groups {
		for name := range group.Dependencies {
			if _, ok := knownExecutables[name]; ok && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func lookupAny(names ...string) bool {
	for _, name := range names {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
