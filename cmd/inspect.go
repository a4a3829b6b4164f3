package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/cmakegen/internal/output"
	"github.com/StinkyLord/cmakegen/internal/scanner"
)

var (
	inspectFlags projectFlags
	flagOutput   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show how a module's files and dependencies are classified",
	Long: `Print the module's compiled sources, headers, test directories and
dependencies as a tree, without writing any build file.

Examples:
  cmakegen inspect ../ENDFtk
  cmakegen inspect . --release --output tree.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectFlags.register(inspectCmd)
	inspectCmd.Flags().StringVarP(&flagOutput, "output", "o", "-", "Output file path (use '-' for stdout)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	absDir, err := moduleDir(args)
	if err != nil {
		return err
	}
	logger := newLogger()

	s, err := inspectFlags.settings(cmd, absDir)
	if err != nil {
		return err
	}

	tree, err := scanner.ScanDir(absDir)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	deps, err := inspectFlags.registry(cmd, absDir, s, logger)
	if err != nil {
		return err
	}

	return output.PrintTree(s.Name, tree, deps, s.Rules(), flagOutput)
}
