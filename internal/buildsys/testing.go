package buildsys

import (
	"fmt"
	"path"
	"strings"

	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
	"github.com/StinkyLord/cmakegen/internal/scanner"
)

// TestingTarget is the umbrella target unit tests link against: the main
// target plus the test-only dependencies, kept off the installable target.
func (g *Generator) TestingTarget() string {
	return g.Name() + "_testing"
}

// TestTargets maps each test directory to its test name, taken from the
// directory's parent segment ("sub/test" is "sub"). A test directory directly
// under src takes the project name.
func (g *Generator) TestTargets() (map[string]string, error) {
	targets := map[string]string{}
	seen := map[string]string{}
	for _, dir := range g.Tree.TestDirectories() {
		name := g.Name()
		if parent := path.Dir(dir); parent != "." {
			name = path.Base(parent)
		}
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: test directories %s and %s both define test %q",
				model.ErrConfiguration, other, dir, name)
		}
		seen[name] = dir
		targets[dir] = name
	}
	return targets, nil
}

// UnitTestingFile renders cmake/unit_testing.cmake.
func (g *Generator) UnitTestingFile() string {
	name := g.Name()
	var b strings.Builder

	b.WriteString(section("Setup"))
	b.WriteString(block(`
		message( STATUS "Adding %s unit testing" )
		enable_testing()


		`, name))

	b.WriteString(section("Unit testing umbrella target"))
	fmt.Fprintf(&b, "add_library( %s INTERFACE )\n", g.TestingTarget())
	if g.opts.Executable {
		fmt.Fprintf(&b, "target_include_directories( %s INTERFACE ${CMAKE_CURRENT_SOURCE_DIR}/src )\n", g.TestingTarget())
	}
	fmt.Fprintf(&b, "target_link_libraries( %s\n", g.TestingTarget())
	if !g.opts.Executable {
		fmt.Fprintf(&b, "    INTERFACE %s\n", name)
	}
	for _, d := range g.Deps.Dependencies() {
		if g.Rules.IsTestOnly(d.Name()) {
			fmt.Fprintf(&b, "    INTERFACE %s\n", d.LibName())
		}
	}
	b.WriteString("    )\n\n\n")

	b.WriteString(section("Unit testing directories"))
	for _, dir := range g.Tree.TestDirectories() {
		fmt.Fprintf(&b, "add_subdirectory( %s )\n", path.Join(scanner.SourceDir, dir))
	}
	return b.String()
}

// TestDirectoryBuildFile renders the CMakeLists.txt of one test directory.
func (g *Generator) TestDirectoryBuildFile(dir string) (string, error) {
	targets, err := g.TestTargets()
	if err != nil {
		return "", err
	}
	name, ok := targets[dir]
	if !ok {
		return "", fmt.Errorf("%q is not a test directory of %s", dir, g.Name())
	}
	return g.testDirectoryBuildFile(dir, name), nil
}

func (g *Generator) testDirectoryBuildFile(dir, test string) string {
	exe := test + ".test"
	var b strings.Builder

	b.WriteString(block(`
		set( CMAKE_CXX_STANDARD %d )
		set( CMAKE_CXX_STANDARD_REQUIRED YES )

		`, g.opts.CXXStandard))

	fmt.Fprintf(&b, "add_executable( %s\n", exe)
	for _, f := range g.Tree.TestSources(dir) {
		fmt.Fprintf(&b, "    %s\n", f)
	}
	b.WriteString("    )\n")

	b.WriteString(block(`
		target_link_libraries( %s
		    PUBLIC %s
		    )
		`, exe, g.TestingTarget()))
	b.WriteString(block(compileOptionsTmpl, exe))
	b.WriteString(block(`
		add_test(
		    NAME %s
		    COMMAND %s
		    )
		`, test, exe))
	return b.String()
}

// InstallationDependencyFile renders cmake/installation_dependencies.cmake:
// one probe per runtime dependency that finds an installed copy unless the
// target already exists.
func (g *Generator) InstallationDependencyFile() (string, error) {
	var b strings.Builder
	b.WriteString(section("Installed dependencies"))
	for _, d := range g.Deps.Dependencies() {
		switch g.Rules.Classify(d.Name()) {
		case fingerprints.TestOnly:
			continue
		case fingerprints.NamespaceProbe:
			fmt.Fprintf(&b, "if( NOT TARGET %s AND NOT TARGET %s )\n", g.namespaced(d), d.LibName())
		default:
			fmt.Fprintf(&b, "if( NOT TARGET %s )\n", d.LibName())
		}
		fmt.Fprintf(&b, "    find_package( %s REQUIRED )\n", d.PackageName())
		b.WriteString("endif()\n\n")
	}
	return b.String(), nil
}
