package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, SettingsFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettings_DefaultsWithoutFile(t *testing.T) {
	s, err := LoadSettings(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, model.DefaultConventions(), s.Conventions())
}

func TestLoadSettings_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
name = "njoy"
dependencies = "deps.yaml"
default_branch = "develop"
executable = true
cxx_standard = 20
logging_library = "spdlog"
`)

	s, err := LoadSettings(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "njoy", s.Name)
	assert.Equal(t, "deps.yaml", s.Dependencies)
	assert.Equal(t, "develop", s.DefaultBranch)
	assert.Equal(t, "bin", s.BuildDir)
	assert.Equal(t, model.DefaultRemoteBase, s.RemoteBase)

	opts := s.BuildOptions()
	assert.True(t, opts.Executable)
	assert.Equal(t, 20, opts.CXXStandard)
	assert.Equal(t, "njoy", opts.Name)

	rules := s.Rules()
	assert.Equal(t, fingerprints.NamespaceProbe, rules.Classify("spdlog"))
	assert.Equal(t, fingerprints.Standard, rules.Classify("Log"))
	assert.Equal(t, fingerprints.TestOnly, rules.Classify("catch-adapter"))
}

func TestLoadSettings_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `default_branch = "develop"`)
	t.Setenv("CMAKEGEN_DEFAULT_BRANCH", "main")
	t.Setenv("CMAKEGEN_REMOTE_BASE", "https://gitlab.com/njoy/")
	t.Setenv("CMAKEGEN_BUILD_DIR", "build")

	s, err := LoadSettings(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "main", s.DefaultBranch)
	assert.Equal(t, "build", s.BuildDir)

	d, err := model.NewDependency(model.Spec{Name: "disco"}, s.Conventions())
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com/njoy/disco", d.Remote())
	tag, err := d.GitTag()
	require.NoError(t, err)
	assert.Equal(t, "origin/main", tag)
}

func TestLoadSettings_ExplicitPathMustExist(t *testing.T) {
	_, err := LoadSettings(t.TempDir(), filepath.Join(t.TempDir(), "other.toml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadSettings_ExplicitPath(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `install = true`)
	s, err := LoadSettings(t.TempDir(), path)
	require.NoError(t, err)
	assert.True(t, s.Install)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad standard", `cxx_standard = 18`},
		{"bad remote base", `remote_base = "not a url"`},
		{"empty branch", `default_branch = ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.content)
			_, err := LoadSettings(dir, "")
			assert.ErrorIs(t, err, model.ErrConfiguration)
		})
	}
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `name = `)
	_, err := LoadSettings(dir, "")
	assert.ErrorContains(t, err, "failed to parse settings file")
}

func TestLoadSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("CMAKEGEN_DEFAULT_BRANCH=develop\nCMAKEGEN_BUILD_DIR=build\n"), 0644))
	t.Setenv("CMAKEGEN_BUILD_DIR", "out")

	s, err := LoadSettings(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "develop", s.DefaultBranch)
	assert.Equal(t, "out", s.BuildDir, "the process environment wins over .env")
}
