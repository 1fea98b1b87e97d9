package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/manifest"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the manifest",
	Long: `Validate the manifest against the pyproject schema and its structural
invariants: parseable constraint strings and a build-backend consistent
with build-system.requires. Exits non-zero when issues are found.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Schema validation works on the raw document, so formatting errors
	// (bad syntax, duplicate keys) surface here first.
	result, err := manifest.ValidateFile(manifestPath)
	if err != nil {
		var fe *manifest.FormatError
		if errors.As(err, &fe) {
			return fmt.Errorf("%s: %w", manifestPath, fe)
		}
		return err
	}

	issueCount := 0
	for _, issue := range result.Issues {
		issueCount++
		if issue.Path != "" {
			fmt.Fprintf(out, "  ✗ %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(out, "  ✗ %s\n", issue.Message)
		}
	}

	// Typed parsing enforces the constraint grammar on every dependency.
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return err
	}

	if err := m.BuildSystem.CheckBackend(); err != nil {
		issueCount++
		fmt.Fprintf(out, "  ✗ %v\n", err)
	}

	if issueCount > 0 {
		return fmt.Errorf("%s: %d issue(s) found", manifestPath, issueCount)
	}

	fmt.Fprintf(out, "  ✓ %s is valid\n", manifestPath)
	return nil
}
