// Package model defines the dependency data structures used by the generator.
package model

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const (
	// DefaultBranch is the branch followed by live-at-head dependencies that
	// declare neither a branch nor a tag.
	DefaultBranch = "master"

	// DefaultRemoteBase is the organisation hosting dependencies that are
	// declared by name only.
	DefaultRemoteBase = "https://github.com/njoy"
)

// Conventions carries the organisation-wide defaults applied when a
// dependency declaration leaves fields unset.
type Conventions struct {
	DefaultBranch string
	RemoteBase    string
}

// DefaultConventions returns the conventions of the NJOY organisation.
func DefaultConventions() Conventions {
	return Conventions{
		DefaultBranch: DefaultBranch,
		RemoteBase:    DefaultRemoteBase,
	}
}

func (c Conventions) branch() string {
	if c.DefaultBranch == "" {
		return DefaultBranch
	}
	return c.DefaultBranch
}

func (c Conventions) remoteFor(name string) string {
	base := c.RemoteBase
	if base == "" {
		base = DefaultRemoteBase
	}
	return strings.TrimSuffix(base, "/") + "/" + name
}

// Spec is one dependency as written in a dependency file. Branch and Tag are
// mutually exclusive; at least one of Name and Remote is required.
type Spec struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty" validate:"required_without=Remote"`
	Remote  string `json:"remote,omitempty" yaml:"remote,omitempty" toml:"remote,omitempty" validate:"required_without=Name"`
	Branch  string `json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty" validate:"excluded_with=Tag"`
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
	Package string `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty"`
	Library string `json:"library,omitempty" yaml:"library,omitempty" toml:"library,omitempty"`
}

// Dependency is one external repository and the reference it is fetched at.
// Dependencies are immutable once constructed.
type Dependency struct {
	name        string
	remote      string
	ref         Ref
	packageName string
	libName     string
}

// NewDependency validates a declaration and fills in its defaults.
func NewDependency(spec Spec, conv Conventions) (*Dependency, error) {
	if spec.Branch != "" && spec.Tag != "" {
		return nil, fmt.Errorf("%w: dependency %q sets both branch %q and tag %q",
			ErrConfiguration, spec.Name, spec.Branch, spec.Tag)
	}
	if spec.Name == "" && spec.Remote == "" {
		return nil, fmt.Errorf("%w: dependency must have a name and/or remote", ErrConfiguration)
	}

	d := &Dependency{
		name:   spec.Name,
		remote: spec.Remote,
	}
	if d.remote == "" {
		d.remote = conv.remoteFor(d.name)
	}
	if d.name == "" {
		d.name = RepoName(d.remote)
		if d.name == "" {
			return nil, fmt.Errorf("%w: cannot derive a name from remote %q", ErrConfiguration, spec.Remote)
		}
	}

	switch {
	case spec.Tag != "":
		d.ref = Pinned(spec.Tag)
	case spec.Branch != "":
		d.ref = Branch(spec.Branch)
	default:
		d.ref = Branch(conv.branch())
	}

	d.packageName = spec.Package
	if d.packageName == "" {
		d.packageName = d.name
	}
	d.libName = spec.Library
	if d.libName == "" {
		d.libName = d.name
	}
	return d, nil
}

// RepoName returns the final path segment of a remote URL without a ".git"
// suffix. Both URL and scp-like ("git@host:org/repo.git") remotes work.
func RepoName(remote string) string {
	remote = strings.TrimRight(strings.TrimSpace(remote), "/")
	if i := strings.LastIndexAny(remote, "/:"); i >= 0 {
		remote = remote[i+1:]
	}
	return strings.TrimSuffix(remote, ".git")
}

// WithRef returns a copy of d resolved at ref.
func (d *Dependency) WithRef(ref Ref) *Dependency {
	c := *d
	c.ref = ref
	return &c
}

func (d *Dependency) Name() string { return d.name }

func (d *Dependency) Remote() string { return d.remote }

func (d *Dependency) Ref() Ref { return d.ref }

// LiveAtHead reports whether the dependency tracks a branch.
func (d *Dependency) LiveAtHead() bool { return d.ref.LiveAtHead() }

// GitTag returns the effective fetch reference.
func (d *Dependency) GitTag() (string, error) {
	tag, err := d.ref.GitTag()
	if err != nil {
		return "", fmt.Errorf("dependency %s: %w", d.name, err)
	}
	return tag, nil
}

// PackageName is the name the dependency is declared under in FetchContent.
func (d *Dependency) PackageName() string { return d.packageName }

// LibName is the CMake target linked against.
func (d *Dependency) LibName() string { return d.libName }

// SourceDirName returns the directory FetchContent checks the dependency out
// into, relative to the _deps folder. FetchContent lowercases the name.
func (d *Dependency) SourceDirName() string {
	return strings.ToLower(d.packageName) + "-src"
}

// Spec returns a declaration that reconstructs d, minus any ref note.
func (d *Dependency) Spec() Spec {
	s := Spec{Name: d.name, Remote: d.remote}
	if d.ref.LiveAtHead() {
		s.Branch = d.ref.Value()
	} else {
		s.Tag = d.ref.Value()
	}
	if d.packageName != d.name {
		s.Package = d.packageName
	}
	if d.libName != d.name {
		s.Library = d.libName
	}
	return s
}

var fetchDeclareHead = strings.TrimPrefix(dedent.Dedent(`
	FetchContent_Declare( %s
	    GIT_REPOSITORY  %s
	    GIT_TAG         %s`), "\n")

// FetchDeclaration renders the FetchContent_Declare block for d. Only
// live-at-head dependencies are cloned shallow: a pinned commit may not be
// reachable from a shallow clone of the default branch.
func (d *Dependency) FetchDeclaration() (string, error) {
	tag, err := d.GitTag()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, fetchDeclareHead, d.packageName, d.remote, tag)
	if note := d.ref.Note(); note != "" {
		fmt.Fprintf(&b, " # %s", note)
	}
	b.WriteString("\n")
	if d.LiveAtHead() {
		b.WriteString("    GIT_SHALLOW     TRUE\n")
	}
	b.WriteString("    )\n")
	return b.String(), nil
}
