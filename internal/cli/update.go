package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/branding"
	"github.com/pyproj-tools/pyproj/internal/config"
	"github.com/pyproj-tools/pyproj/internal/updater"
)

var (
	updateCheckOnly bool
	updateVersion   string
)

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "Only check whether an update is available")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "Update to a specific version instead of the latest")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update " + branding.CLIName() + " to the latest release",
	Long: `Check GitHub releases for a newer build, download the archive for this
platform, verify its checksum, and replace the running binary.`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if buildVersion == "" || buildVersion == "dev" {
		return fmt.Errorf("cannot self-update a development build; install a released version first")
	}

	u := updater.New(buildVersion, updater.WithMirror(config.UpdateMirror()))

	var release *updater.Release
	var err error
	if updateVersion != "" {
		release, err = u.CheckSpecificVersion(updateVersion)
	} else {
		release, err = u.CheckLatestVersion()
	}
	if err != nil {
		return err
	}

	available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
	if err != nil {
		return err
	}
	if !available && updateVersion == "" {
		fmt.Fprintf(out, "%s %s is already the latest version.\n", branding.CLIName(), buildVersion)
		return nil
	}

	if updateCheckOnly {
		fmt.Fprintf(out, "Update available: %s -> %s\n", buildVersion, release.Version)
		fmt.Fprintf(out, "  %s\n", release.HTMLURL)
		return nil
	}

	fmt.Fprintf(out, "Updating %s -> %s\n", buildVersion, release.Version)

	tmpDir, err := os.MkdirTemp("", branding.CLIName()+"-update-")
	if err != nil {
		return fmt.Errorf("creating temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath, err := u.DownloadBinary(release, tmpDir)
	if err != nil {
		return err
	}
	if err := u.VerifyChecksum(release, archivePath); err != nil {
		return err
	}

	newBinary, err := updater.ExtractBinary(archivePath, tmpDir)
	if err != nil {
		return err
	}

	current, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current binary: %w", err)
	}

	if err := updater.ReplaceBinary(newBinary, current, release.Version); err != nil {
		return err
	}

	// Record the new state so the startup banner goes quiet.
	_ = updater.SaveCache(config.Dir(), &updater.VersionCache{
		LatestVersion:   release.Version,
		CurrentVersion:  release.Version,
		CheckedAt:       time.Now(),
		UpdateAvailable: false,
	})

	fmt.Fprintf(out, "Updated to %s.\n", release.Version)
	return nil
}
