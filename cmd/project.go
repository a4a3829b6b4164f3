package cmd

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/cmakegen/internal/config"
	"github.com/StinkyLord/cmakegen/internal/model"
	"github.com/StinkyLord/cmakegen/internal/release"
)

// projectFlags are shared by the commands that load a module.
type projectFlags struct {
	name          string
	dependencies  string
	buildDir      string
	defaultBranch string
	release       bool
	develop       bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Repository name (default: base name of the module path)")
	cmd.Flags().StringVarP(&f.dependencies, "dependencies", "d", "", "Dependency file (default dependencies.json)")
	cmd.Flags().StringVarP(&f.buildDir, "build-dir", "b", "", "Build directory, relative to the module path (default bin)")
	cmd.Flags().StringVar(&f.defaultBranch, "default-branch", "", "Default branch for live-at-head dependencies (default master)")
	cmd.Flags().BoolVar(&f.develop, "develop", false, "Use the declared dependencies (default)")
	cmd.Flags().BoolVar(&f.release, "release", false,
		"Pin dependencies to the commits checked out in <build-dir>/_deps")
	cmd.MarkFlagsMutuallyExclusive("develop", "release")
}

// settings loads the settings of the module at dir and applies the flags
// that were set explicitly.
func (f *projectFlags) settings(cmd *cobra.Command, dir string) (config.Settings, error) {
	s, err := config.LoadSettings(dir, flagConfig)
	if err != nil {
		return s, err
	}

	changed := cmd.Flags().Changed
	if changed("name") {
		s.Name = f.name
	}
	if changed("dependencies") {
		s.Dependencies = f.dependencies
	}
	if changed("build-dir") {
		s.BuildDir = f.buildDir
	}
	if changed("default-branch") {
		s.DefaultBranch = f.defaultBranch
	}
	if s.Name == "" {
		s.Name = filepath.Base(dir)
	}
	return s, s.Validate()
}

// registry builds the dependency registry of the module at dir: from the
// checked-out snapshot in release mode, from the dependency file otherwise.
func (f *projectFlags) registry(cmd *cobra.Command, dir string, s config.Settings, logger *log.Logger) (*model.Registry, error) {
	if f.release {
		depsDir := release.DepsDir(dir, s.BuildDir)
		logger.Info().Str("deps", depsDir).Msg("Resolving release snapshot")
		return release.FromCheckedOut(depsDir, release.Git{}, s.Conventions())
	}

	file, err := config.LoadDependencies(s.Dependencies)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("dependencies") {
			logger.Warn().Str("file", s.Dependencies).Msg("No dependency file, generating without dependencies")
			return model.NewRegistry(), nil
		}
		return nil, err
	}

	specs, ok := file[s.Name]
	if !ok {
		logger.Warn().Str("repository", s.Name).Str("file", s.Dependencies).Msg("Repository not listed in dependency file")
	}
	return model.FromSpecs(specs, s.Conventions())
}
