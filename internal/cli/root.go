package cli

import (
	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/branding"
	"github.com/pyproj-tools/pyproj/internal/config"
	"github.com/pyproj-tools/pyproj/internal/updater"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` inspects, validates, and resolves pyproject manifests:
project identity, dependency groups, build-system declarations, and the
per-tool settings namespaces consumed by formatters, linters, and type
checkers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		maybePrintUpdateBanner(cmd)
	},
}

// maybePrintUpdateBanner shows a one-line notice when a newer release is
// cached. Development builds and the update command itself stay quiet.
func maybePrintUpdateBanner(cmd *cobra.Command) {
	if buildVersion == "" || buildVersion == "dev" {
		return
	}
	switch cmd.Name() {
	case "update", "version", cobra.ShellCompRequestCmd:
		return
	}
	u := updater.New(buildVersion, updater.WithMirror(config.UpdateMirror()))
	u.CheckAndPrintBanner(cmd.ErrOrStderr(), config.Dir())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "f", "pyproject.toml",
		"Path to the manifest file")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
