package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyproj-tools/pyproj/internal/scaffold"
)

var (
	initDescription string
	initAuthor      string
	initPython      string
	initDir         string
)

func init() {
	initCmd.Flags().StringVar(&initDescription, "description", "", "Project description")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "Author in \"Name <email>\" form")
	initCmd.Flags().StringVar(&initPython, "python", "", "Interpreter range (default ^3.11)")
	initCmd.Flags().StringVarP(&initDir, "dir", "d", "", "Output directory (default: ./<name>)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new project manifest",
	Long:  `Generate a pyproject.toml and companion files for a new project.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	dir := initDir
	if dir == "" {
		dir = name
	}

	data := scaffold.NewData(name, initDescription, initAuthor, initPython)
	result, err := scaffold.Generate(data, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s:\n", result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  Warning: %s\n", w)
	}
	return nil
}
