package model

import "fmt"

// RefKind tells how a dependency is resolved.
type RefKind int

const (
	// RefBranch tracks the tip of a named branch (live at head).
	RefBranch RefKind = iota
	// RefPinned is fixed to a tag or commit hash.
	RefPinned
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefPinned:
		return "pinned"
	default:
		return "unknown"
	}
}

// Ref is the resolution mode of a dependency. A Ref is either a branch or a
// pinned reference, never both; the zero value is an unnamed branch and fails
// to resolve.
type Ref struct {
	kind  RefKind
	value string
	note  string
}

// Branch returns a live-at-head reference tracking the named branch.
func Branch(name string) Ref {
	return Ref{kind: RefBranch, value: name}
}

// Pinned returns a reference fixed to a tag or commit hash.
func Pinned(ref string) Ref {
	return Ref{kind: RefPinned, value: ref}
}

// Annotated returns a copy of a pinned reference carrying an informational
// note, rendered as a trailing comment. Notes on branches are dropped.
func (r Ref) Annotated(note string) Ref {
	if r.kind != RefPinned {
		return r
	}
	r.note = note
	return r
}

func (r Ref) Kind() RefKind { return r.kind }
func (r Ref) Value() string { return r.value }
func (r Ref) Note() string { return r.note }
func (r Ref) LiveAtHead() bool { return r.kind == RefBranch }

// GitTag returns the reference handed to FetchContent: "origin/<branch>" for
// branches, the literal tag or hash otherwise.
func (r Ref) GitTag() (string, error) {
	if r.value == "" {
		if r.kind == RefPinned {
			return "", fmt.Errorf("%w: pinned dependency has no tag or commit", ErrConfiguration)
		}
		return "", fmt.Errorf("%w: live-at-head dependency has no branch", ErrConfiguration)
	}
	if r.kind == RefBranch {
		return "origin/" + r.value, nil
	}
	return r.value, nil
}

func (r Ref) String() string {
	return r.kind.String() + ":" + r.value
}
