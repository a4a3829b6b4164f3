// Package buildsys renders and writes the CMake files of a C++ module from
// its source tree and dependency registry.
package buildsys

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/phuslu/log"

	"github.com/StinkyLord/cmakegen/internal/common"
	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
	"github.com/StinkyLord/cmakegen/internal/output"
	"github.com/StinkyLord/cmakegen/internal/scanner"
)

// DefaultCXXStandard is the C++ standard of generated targets.
const DefaultCXXStandard = 17

// Artifact locations, relative to the module root.
const (
	TopLevelFile               = "CMakeLists.txt"
	CMakeDir                   = "cmake"
	UnitTestingFile            = "unit_testing.cmake"
	InstallationDependencyFile = "installation_dependencies.cmake"
)

// Options selects the shape of the generated project.
type Options struct {
	// Name is the project and main target name; the base name of the module
	// root when empty.
	Name string
	// Executable builds an executable instead of a library.
	Executable bool
	// Install adds install rules and an exported package configuration.
	Install bool
	// CXXStandard defaults to DefaultCXXStandard.
	CXXStandard int
}

// Generator writes a module's build files. Every emission renders its
// artifact from the tree and registry alone and replaces it wholesale, so
// emissions can run in any order or subset.
type Generator struct {
	Root string
	Tree *scanner.SourceTree
	Deps *model.Registry

	// Rules identifies the special-cased libraries.
	Rules fingerprints.Rules
	// Sink receives the artifacts; files on disk by default.
	Sink   output.Sink
	Logger *log.Logger

	opts Options
}

// New creates a Generator for the module at root.
func New(root string, tree *scanner.SourceTree, deps *model.Registry, opts Options) *Generator {
	if opts.CXXStandard == 0 {
		opts.CXXStandard = DefaultCXXStandard
	}
	if deps == nil {
		deps = model.NewRegistry()
	}
	return &Generator{
		Root:   root,
		Tree:   tree,
		Deps:   deps,
		Rules:  fingerprints.KnownLibraries(),
		Sink:   output.FileSink{},
		Logger: common.NewNoOpLogger(),
		opts:   opts,
	}
}

// Name returns the project name.
func (g *Generator) Name() string {
	if g.opts.Name != "" {
		return g.opts.Name
	}
	return filepath.Base(filepath.Clean(g.Root))
}

// Options returns the generator's options with defaults applied.
func (g *Generator) Options() Options { return g.opts }

// EmitAll writes every artifact of the registry's mode. A release snapshot
// only refreshes the release dependency file; the other artifacts depend on
// the declarative dependency list.
func (g *Generator) EmitAll() error {
	if g.Deps.Origin() == model.Snapshot {
		return g.EmitDependencyFetchFile()
	}
	steps := []func() error{
		g.EmitDependencyFetchFile,
		g.EmitInstallationDependencyFile,
		g.EmitTopLevelBuildFile,
		g.EmitTestDirectoryBuildFiles,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// EmitTopLevelBuildFile writes CMakeLists.txt.
func (g *Generator) EmitTopLevelBuildFile() error {
	text, err := g.TopLevelBuildFile()
	if err != nil {
		return err
	}
	return g.write(TopLevelFile, text)
}

// EmitTestDirectoryBuildFiles writes cmake/unit_testing.cmake and one
// CMakeLists.txt per test directory.
func (g *Generator) EmitTestDirectoryBuildFiles() error {
	targets, err := g.TestTargets()
	if err != nil {
		return err
	}
	if err := g.write(path.Join(CMakeDir, UnitTestingFile), g.UnitTestingFile()); err != nil {
		return err
	}
	for _, dir := range g.Tree.TestDirectories() {
		text := g.testDirectoryBuildFile(dir, targets[dir])
		if err := g.write(path.Join(scanner.SourceDir, dir, TopLevelFile), text); err != nil {
			return err
		}
	}
	return nil
}

// EmitDependencyFetchFile writes cmake/develop_dependencies.cmake, or
// cmake/release_dependencies.cmake for a release snapshot.
func (g *Generator) EmitDependencyFetchFile() error {
	text, err := g.DependencyFetchFile()
	if err != nil {
		return err
	}
	return g.write(path.Join(CMakeDir, g.Deps.ArtifactName()), text)
}

// EmitInstallationDependencyFile writes cmake/installation_dependencies.cmake.
func (g *Generator) EmitInstallationDependencyFile() error {
	text, err := g.InstallationDependencyFile()
	if err != nil {
		return err
	}
	return g.write(path.Join(CMakeDir, InstallationDependencyFile), text)
}

// DependencyFetchFile renders the dependency fetch file.
func (g *Generator) DependencyFetchFile() (string, error) {
	return g.Deps.RenderFetchFile(g.Name(), g.Rules)
}

func (g *Generator) write(rel, text string) error {
	target := filepath.Join(g.Root, filepath.FromSlash(rel))
	if err := g.Sink.Write(target, []byte(text)); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	g.Logger.Info().Str("project", g.Name()).Str("file", rel).Msg("Wrote build file")
	return nil
}
