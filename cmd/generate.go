package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/cmakegen/internal/buildsys"
	"github.com/StinkyLord/cmakegen/internal/output"
	"github.com/StinkyLord/cmakegen/internal/scanner"
)

var (
	generateFlags  projectFlags
	flagExecutable bool
	flagInstall    bool
	flagDryRun     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write the CMake build system of a module",
	Long: `Write CMakeLists.txt, cmake/unit_testing.cmake, one CMakeLists.txt per test
directory, cmake/develop_dependencies.cmake and
cmake/installation_dependencies.cmake for the module at path.

With --release only cmake/release_dependencies.cmake is written, pinning every
dependency checked out in <build-dir>/_deps to its current commit.

Examples:
  cmakegen generate ../ENDFtk --dependencies dependencies.json
  cmakegen generate . --name ENDFtk --release --build-dir build
  cmakegen generate . --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateFlags.register(generateCmd)
	generateCmd.Flags().BoolVar(&flagExecutable, "executable", false, "Build an executable instead of a library")
	generateCmd.Flags().BoolVar(&flagInstall, "install", false, "Add install rules and an exported package configuration")
	generateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the generated files instead of writing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	absDir, err := moduleDir(args)
	if err != nil {
		return err
	}
	logger := newLogger()

	s, err := generateFlags.settings(cmd, absDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("executable") {
		s.Executable = flagExecutable
	}
	if cmd.Flags().Changed("install") {
		s.Install = flagInstall
	}

	logger.Info().Str("module", absDir).Str("name", s.Name).Msg("Scanning")
	tree, err := scanner.ScanDir(absDir)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	logger.Debug().
		Int("sources", len(tree.CompiledSources())).
		Int("headers", len(tree.HeaderFiles())).
		Int("tests", len(tree.TestDirectories())).
		Bool("header_only", tree.HeaderOnly()).
		Msg("Classified source tree")

	deps, err := generateFlags.registry(cmd, absDir, s, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("dependencies", deps.Len()).Str("mode", deps.Origin().String()).Msg("Loaded dependencies")

	gen := buildsys.New(absDir, tree, deps, s.BuildOptions())
	gen.Rules = s.Rules()
	gen.Logger = logger
	if flagDryRun {
		gen.Sink = output.DryRunSink{W: os.Stdout}
	}

	if err := gen.EmitAll(); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	return nil
}
