package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/config"
	"github.com/pyproj-tools/pyproj/internal/manifest"
	"github.com/pyproj-tools/pyproj/internal/resolver"
)

var (
	lockGroups  []string
	lockSources []string
	lockOutput  string
)

func init() {
	lockCmd.Flags().StringSliceVar(&lockGroups, "group", nil,
		"Dependency groups to resolve (default: all declared groups)")
	lockCmd.Flags().StringSliceVar(&lockSources, "source", nil,
		"Catalog source directory (repeatable; overrides configured sources)")
	lockCmd.Flags().StringVarP(&lockOutput, "output", "o", "",
		"Lock file path (default: <lock.file> next to the manifest)")
	rootCmd.AddCommand(lockCmd)
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Resolve dependencies and write a lock file",
	Long: `Resolve the manifest and pin the result to a lock file. Re-running
against an unchanged manifest and index writes an identical lock.`,
	RunE: runLock,
}

func runLock(cmd *cobra.Command, args []string) error {
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		return err
	}

	ix, err := buildIndex(lockSources)
	if err != nil {
		return err
	}

	set, err := resolver.Resolve(m, ix, groupsOrNil(lockGroups))
	if err != nil {
		return err
	}

	lock, err := resolver.NewLock(m, set)
	if err != nil {
		return err
	}

	path := lockOutput
	if path == "" {
		path = filepath.Join(filepath.Dir(manifestPath), config.LockFile())
	}
	if err := resolver.WriteLock(path, lock); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Locked %d packages to %s\n", len(lock.Package), path)
	return nil
}
