package buildsys

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
)

// section renders a banner comment.
func section(title string) string {
	bar := strings.Repeat("#", 72)
	return bar + "\n# " + title + "\n" + bar + "\n\n"
}

// block dedents a template and formats it.
func block(tmpl string, args ...any) string {
	return fmt.Sprintf(strings.TrimPrefix(dedent.Dedent(tmpl), "\n"), args...)
}

const compileOptionsTmpl = `
	target_compile_options( %s PRIVATE
	    ${common_flags}
	    $<$<BOOL:${strict_compile}>:${strict_flags}>
	    $<$<CONFIG:DEBUG>:${debug_flags}>
	    $<$<CONFIG:RELEASE>:${release_flags}>
	    )
	`

// TopLevelBuildFile renders CMakeLists.txt.
func (g *Generator) TopLevelBuildFile() (string, error) {
	name := g.Name()
	headerOnly := g.Tree.HeaderOnly()
	if g.opts.Executable && headerOnly {
		return "", fmt.Errorf("%w: executable %s has no compiled sources", model.ErrConfiguration, name)
	}

	var b strings.Builder

	b.WriteString(section("Preamble"))
	b.WriteString(block(`
		cmake_minimum_required( VERSION 3.14 )
		project( %s LANGUAGES CXX )


		`, name))

	b.WriteString(section("Project-wide setup"))
	b.WriteString(block(`
		set( CMAKE_CXX_STANDARD %d )
		set( CMAKE_CXX_STANDARD_REQUIRED YES )

		if( CMAKE_SOURCE_DIR STREQUAL CMAKE_CURRENT_SOURCE_DIR )
		    set( %[2]s_top_level ON )
		else()
		    set( %[2]s_top_level OFF )
		endif()

		option( %[2]s_unit_tests
		    "Compile the %[2]s unit tests and integrate with ctest" ${%[2]s_top_level}
		    )
		option( strict_compile
		    "Treat all warnings as errors." ON
		    )

		# Compile flags
		set( common_flags "-Wall" "-Wextra" "-Wpedantic" )
		set( strict_flags "-Werror" )
		set( release_flags "-O3" )
		set( debug_flags "-O0" "-g" )

		`, g.opts.CXXStandard, name))
	if g.opts.Install {
		b.WriteString("include( GNUInstallDirs )\n\n")
	}
	b.WriteString("\n")

	if g.Deps.Len() > 0 {
		b.WriteString(section("Dependencies"))
		b.WriteString(block(`
			set( REPOSITORIES "release"
			    CACHE STRING
			    "Options for where to fetch repositories: develop, release, local"
			    )

			if( REPOSITORIES STREQUAL "develop" )
			    include( cmake/develop_dependencies.cmake )

			elseif( REPOSITORIES STREQUAL "release" )
			    include( cmake/release_dependencies.cmake )

			elseif( REPOSITORIES STREQUAL "local" )
			    include( cmake/local_dependencies.cmake )

			endif()


			`))
	}

	b.WriteString(section("Project targets"))
	g.writeTarget(&b, headerOnly)
	b.WriteString("\n\n")

	b.WriteString(section("Top-level Only"))
	b.WriteString(block(`
		if( CMAKE_SOURCE_DIR STREQUAL CMAKE_CURRENT_SOURCE_DIR )

		    # unit testing
		    if( %s_unit_tests )
		        include( cmake/unit_testing.cmake )
		    endif()

		endif()
		`, name))

	if g.opts.Install {
		b.WriteString("\n\n")
		b.WriteString(g.installRules())
	}

	return b.String(), nil
}

func (g *Generator) writeTarget(b *strings.Builder, headerOnly bool) {
	name := g.Name()
	linkType := "PUBLIC"
	if headerOnly {
		linkType = "INTERFACE"
	}

	command := "add_library"
	if g.opts.Executable {
		command = "add_executable"
	}
	if headerOnly {
		fmt.Fprintf(b, "%s( %s INTERFACE )\n", command, name)
	} else {
		fmt.Fprintf(b, "%s( %s\n", command, name)
		for _, f := range g.Tree.CompiledSources() {
			fmt.Fprintf(b, "    src/%s\n", f)
		}
		b.WriteString("    )\n")
	}

	if g.opts.Install {
		b.WriteString(block(`
			target_include_directories( %s %s
			    $<BUILD_INTERFACE:${CMAKE_CURRENT_SOURCE_DIR}/src>
			    $<INSTALL_INTERFACE:${CMAKE_INSTALL_INCLUDEDIR}>
			    )
			`, name, linkType))
	} else {
		fmt.Fprintf(b, "target_include_directories( %s %s src/ )\n", name, linkType)
	}

	var standard []*model.Dependency
	var probed []*model.Dependency
	for _, d := range g.Deps.Dependencies() {
		switch g.Rules.Classify(d.Name()) {
		case fingerprints.TestOnly:
			// linked by the unit-test umbrella target only
		case fingerprints.NamespaceProbe:
			probed = append(probed, d)
		default:
			standard = append(standard, d)
		}
	}

	if len(standard) > 0 {
		fmt.Fprintf(b, "target_link_libraries( %s\n", name)
		for _, d := range standard {
			fmt.Fprintf(b, "    %s %s\n", linkType, d.LibName())
		}
		b.WriteString("    )\n")
	}
	for _, d := range probed {
		b.WriteString(block(`
			if( TARGET %[3]s )
			    target_link_libraries( %[1]s %[2]s %[3]s )
			else()
			    target_link_libraries( %[1]s %[2]s %[4]s )
			endif()
			`, name, linkType, g.namespaced(d), d.LibName()))
	}

	if !headerOnly {
		b.WriteString(block(compileOptionsTmpl, name))
	}
}

// namespaced returns the namespaced target of a NamespaceProbe dependency.
func (g *Generator) namespaced(d *model.Dependency) string {
	if fp := g.Rules.MatchLibrary(d.Name()); fp != nil && fp.Namespaced != "" {
		return fp.Namespaced
	}
	return d.LibName() + "::" + d.LibName()
}

func (g *Generator) installRules() string {
	name := g.Name()
	var b strings.Builder
	b.WriteString(section("Installation"))
	b.WriteString(block(`
		install( TARGETS %[1]s
		    EXPORT %[1]s-targets
		    LIBRARY DESTINATION ${CMAKE_INSTALL_LIBDIR}
		    ARCHIVE DESTINATION ${CMAKE_INSTALL_LIBDIR}
		    RUNTIME DESTINATION ${CMAKE_INSTALL_BINDIR}
		    )
		`, name))
	if !g.opts.Executable {
		b.WriteString(block(`
			install( DIRECTORY src/
			    DESTINATION ${CMAKE_INSTALL_INCLUDEDIR}
			    FILES_MATCHING PATTERN "*.hpp"
			    PATTERN "test" EXCLUDE
			    )
			install( EXPORT %[1]s-targets
			    FILE %[1]s-targets.cmake
			    NAMESPACE %[1]s::
			    DESTINATION ${CMAKE_INSTALL_LIBDIR}/cmake/%[1]s
			    )
			file( WRITE ${CMAKE_CURRENT_BINARY_DIR}/%[1]s-config.cmake
			    "include( \${CMAKE_CURRENT_LIST_DIR}/installation_dependencies.cmake )\n"
			    "include( \${CMAKE_CURRENT_LIST_DIR}/%[1]s-targets.cmake )\n"
			    )
			install( FILES
			    ${CMAKE_CURRENT_BINARY_DIR}/%[1]s-config.cmake
			    cmake/installation_dependencies.cmake
			    DESTINATION ${CMAKE_INSTALL_LIBDIR}/cmake/%[1]s
			    )
			`, name))
	}
	return b.String()
}
