// Package fingerprints holds the table of libraries whose CMake linkage does
// not follow the one-dependency-one-target convention.
package fingerprints

import "strings"

// Linkage describes how a dependency is wired into generated build files.
type Linkage int

const (
	// Standard dependencies are linked by their library name.
	Standard Linkage = iota
	// TestOnly dependencies are linked by the unit-test umbrella target only
	// and fetched only when unit tests are enabled.
	TestOnly
	// NamespaceProbe dependencies export a namespaced target in some releases
	// and a plain one in others, so the generated file probes for both.
	NamespaceProbe
)

func (l Linkage) String() string {
	switch l {
	case TestOnly:
		return "test-only"
	case NamespaceProbe:
		return "namespace-probe"
	default:
		return "standard"
	}
}

// LibraryFingerprint describes one special-cased library.
type LibraryFingerprint struct {
	Name        string // Dependency name, matched case-insensitively
	Linkage     Linkage
	Namespaced  string // Namespaced target, for NamespaceProbe libraries
	Description string
}

const (
	// DefaultTestAdapter is the unit-testing framework adapter.
	DefaultTestAdapter = "catch-adapter"
	// DefaultLoggingLibrary is the logging library with inconsistent exports.
	DefaultLoggingLibrary = "Log"
)

// Rules is a set of special-cased libraries.
type Rules struct {
	Libraries []LibraryFingerprint
}

// KnownLibraries returns the built-in rules.
func KnownLibraries() Rules {
	return NewRules(DefaultTestAdapter, DefaultLoggingLibrary)
}

// NewRules builds rules for the given test adapter and logging library. An
// empty name disables that rule.
func NewRules(testAdapter, loggingLibrary string) Rules {
	var r Rules
	if testAdapter != "" {
		r.Libraries = append(r.Libraries, LibraryFingerprint{
			Name:        testAdapter,
			Linkage:     TestOnly,
			Description: "Unit-testing framework adapter",
		})
	}
	if loggingLibrary != "" {
		r.Libraries = append(r.Libraries, LibraryFingerprint{
			Name:        loggingLibrary,
			Linkage:     NamespaceProbe,
			Namespaced:  loggingLibrary + "::" + loggingLibrary,
			Description: "Logging library",
		})
	}
	return r
}

// MatchLibrary returns the fingerprint for name, or nil for a standard library.
func (r Rules) MatchLibrary(name string) *LibraryFingerprint {
	for i := range r.Libraries {
		if strings.EqualFold(r.Libraries[i].Name, name) {
			return &r.Libraries[i]
		}
	}
	return nil
}

// Classify returns the linkage of name.
func (r Rules) Classify(name string) Linkage {
	if fp := r.MatchLibrary(name); fp != nil {
		return fp.Linkage
	}
	return Standard
}

// IsTestOnly reports whether name is only needed by unit tests.
func (r Rules) IsTestOnly(name string) bool {
	return r.Classify(name) == TestOnly
}
