package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/cmakegen/internal/common"
	"github.com/StinkyLord/cmakegen/internal/config"
)

const toolVersion = "1.0.0"

var (
	flagConfig   string
	flagLogLevel string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "cmakegen",
	Short: "CMake build system generator for C++ modules",
	Long: `cmakegen writes the CMake build system of a C++ module from its source
tree and its declared dependencies.

The module layout is inferred from the filesystem:
  • src/**/*.cpp    — compiled sources of the main target
  • src/**/*.hpp    — headers (a module without .cpp files is header-only)
  • src/**/test/    — unit-test directories, one test executable each

Dependencies come from a dependency file (JSON, YAML or TOML) mapping each
repository to the repositories it fetches, or, for a release, from the
checkouts FetchContent left in <build-dir>/_deps.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cmakegen version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cmakegen v%s\n", toolVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"Settings file (default <path>/"+config.SettingsFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output (same as --log-level debug)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	level := flagLogLevel
	if flagVerbose {
		level = "debug"
	}
	return common.NewLogger(level, os.Stderr)
}

// moduleDir resolves and checks the module path argument.
func moduleDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("cannot resolve directory %q: %w", dir, err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return "", fmt.Errorf("directory %q does not exist: %w", absDir, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%q is not a directory", absDir)
	}
	return absDir, nil
}
