package fingerprints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownLibraries_Classify(t *testing.T) {
	rules := KnownLibraries()

	tests := []struct {
		name string
		want Linkage
	}{
		{"catch-adapter", TestOnly},
		{"Catch-Adapter", TestOnly},
		{"Log", NamespaceProbe},
		{"log", NamespaceProbe},
		{"disco", Standard},
		{"Logger", Standard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.Classify(tt.name), tt.name)
	}
}

func TestMatchLibrary_Namespaced(t *testing.T) {
	fp := KnownLibraries().MatchLibrary("Log")
	require.NotNil(t, fp)
	assert.Equal(t, "Log::Log", fp.Namespaced)

	assert.Nil(t, KnownLibraries().MatchLibrary("disco"))
}

func TestNewRules_EmptyNameDisablesRule(t *testing.T) {
	rules := NewRules("", "spdlog")
	assert.False(t, rules.IsTestOnly("catch-adapter"))
	assert.Equal(t, NamespaceProbe, rules.Classify("spdlog"))
	assert.Equal(t, "spdlog::spdlog", rules.MatchLibrary("spdlog").Namespaced)
}

func TestLinkage_String(t *testing.T) {
	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "test-only", TestOnly.String())
	assert.Equal(t, "namespace-probe", NamespaceProbe.String())
}
