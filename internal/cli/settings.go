package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/manifest"
	"github.com/pyproj-tools/pyproj/internal/toolcfg"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings <tool>",
	Short: "Print a tool's settings namespace",
	Long: `Print the [tool.<name>] namespace from the manifest as JSON. A missing
namespace is not an error: the tool falls back to its own defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettings,
}

func runSettings(cmd *cobra.Command, args []string) error {
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return err
	}

	tool := args[0]
	table, err := toolcfg.Lookup(m, tool)
	if err != nil {
		var unknown *toolcfg.UnknownToolSectionError
		if errors.As(err, &unknown) {
			fmt.Fprintf(cmd.OutOrStdout(), "No [tool.%s] section; tool defaults apply.\n", tool)
			return nil
		}
		return err
	}

	out, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling [tool.%s]: %w", tool, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
