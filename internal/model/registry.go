package model

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/StinkyLord/cmakegen/internal/fingerprints"
)

// Origin tells how a Registry was populated.
type Origin int

const (
	// Declarative registries come from a dependency file.
	Declarative Origin = iota
	// Snapshot registries are discovered from checked-out dependencies.
	Snapshot
)

func (o Origin) String() string {
	if o == Snapshot {
		return "release"
	}
	return "develop"
}

// Registry is an ordered collection of dependencies. Insertion order is
// emission order in every generated file.
type Registry struct {
	origin       Origin
	dependencies []*Dependency
}

// NewRegistry returns an empty declarative registry.
func NewRegistry() *Registry {
	return &Registry{origin: Declarative}
}

// NewSnapshotRegistry returns an empty registry for a release snapshot.
func NewSnapshotRegistry() *Registry {
	return &Registry{origin: Snapshot}
}

// FromSpecs builds a declarative registry from declarations, in order.
func FromSpecs(specs []Spec, conv Conventions) (*Registry, error) {
	r := NewRegistry()
	for i, spec := range specs {
		d, err := NewDependency(spec, conv)
		if err != nil {
			return nil, fmt.Errorf("dependency #%d: %w", i+1, err)
		}
		if err := r.Add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends dependencies. Duplicate names are kept; ordering and uniqueness
// are the caller's policy.
func (r *Registry) Add(deps ...*Dependency) error {
	for _, d := range deps {
		if d == nil {
			return fmt.Errorf("%w: cannot register a nil dependency", ErrConfiguration)
		}
	}
	r.dependencies = append(r.dependencies, deps...)
	return nil
}

func (r *Registry) Origin() Origin { return r.origin }

func (r *Registry) Len() int { return len(r.dependencies) }

// Dependencies returns the registered dependencies in insertion order.
func (r *Registry) Dependencies() []*Dependency {
	out := make([]*Dependency, len(r.dependencies))
	copy(out, r.dependencies)
	return out
}

// ArtifactName is the file the fetch declarations are written to, inside
// the module's cmake directory.
func (r *Registry) ArtifactName() string {
	return r.origin.String() + "_dependencies.cmake"
}

var fetchPreamble = strings.TrimPrefix(dedent.Dedent(`
	cmake_minimum_required( VERSION 3.14 )
	include( FetchContent )

	#######################################################################
	# Declare project dependencies
	#######################################################################

	`), "\n")

var loadHeader = strings.TrimPrefix(dedent.Dedent(`
	#######################################################################
	# Load dependencies
	#######################################################################

	`), "\n")

// RenderFetchFile renders the dependency fetch file for project. Test-only
// dependencies are materialized only when the project's unit tests are
// enabled, so consumers of the project never fetch its test framework.
func (r *Registry) RenderFetchFile(project string, rules fingerprints.Rules) (string, error) {
	var b strings.Builder
	b.WriteString(fetchPreamble)

	var available, testOnly []string
	for _, d := range r.dependencies {
		block, err := d.FetchDeclaration()
		if err != nil {
			return "", err
		}
		b.WriteString(block)
		b.WriteString("\n")

		if rules.IsTestOnly(d.Name()) {
			testOnly = append(testOnly, d.PackageName())
		} else {
			available = append(available, d.PackageName())
		}
	}

	b.WriteString(loadHeader)
	if len(available) > 0 {
		b.WriteString("FetchContent_MakeAvailable(\n")
		for _, name := range available {
			fmt.Fprintf(&b, "    %s\n", name)
		}
		b.WriteString("    )\n")
	}
	if len(testOnly) > 0 {
		if len(available) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "if( %s_unit_tests )\n", project)
		b.WriteString("    FetchContent_MakeAvailable(\n")
		for _, name := range testOnly {
			fmt.Fprintf(&b, "        %s\n", name)
		}
		b.WriteString("        )\n")
		b.WriteString("endif()\n")
	}
	return b.String(), nil
}
