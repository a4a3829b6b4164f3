package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/StinkyLord/cmakegen/internal/buildsys"
	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
)

// SettingsFile is the optional per-module settings file.
const SettingsFile = "cmakegen.toml"

// Settings are the generator's tunables. Priority, lowest first: defaults,
// settings file, the module's .env file, the process environment,
// command-line flags (applied by the caller).
type Settings struct {
	Name           string `toml:"name"`
	Dependencies   string `toml:"dependencies" validate:"required"`
	BuildDir       string `toml:"build_dir" validate:"required"`
	DefaultBranch  string `toml:"default_branch" validate:"required"`
	RemoteBase     string `toml:"remote_base" validate:"required,url"`
	Executable     bool   `toml:"executable"`
	Install        bool   `toml:"install"`
	CXXStandard    int    `toml:"cxx_standard" validate:"oneof=11 14 17 20 23 26"`
	TestAdapter    string `toml:"test_adapter"`
	LoggingLibrary string `toml:"logging_library"`
}

// DefaultSettings returns the settings used without a settings file.
func DefaultSettings() Settings {
	return Settings{
		Dependencies:   "dependencies.json",
		BuildDir:       "bin",
		DefaultBranch:  model.DefaultBranch,
		RemoteBase:     model.DefaultRemoteBase,
		CXXStandard:    buildsys.DefaultCXXStandard,
		TestAdapter:    fingerprints.DefaultTestAdapter,
		LoggingLibrary: fingerprints.DefaultLoggingLibrary,
	}
}

// LoadSettings layers defaults, a settings file and the environment. With an
// empty path, <moduleRoot>/cmakegen.toml is read when it exists; an explicit
// path must exist.
func LoadSettings(moduleRoot, path string) (Settings, error) {
	s := DefaultSettings()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(moduleRoot, SettingsFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return s, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	env, err := moduleEnv(moduleRoot)
	if err != nil {
		return s, err
	}
	applyEnvOverrides(&s, env)

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// moduleEnv returns a lookup over the process environment, falling back to
// <moduleRoot>/.env when it exists.
func moduleEnv(moduleRoot string) (func(string) string, error) {
	path := filepath.Join(moduleRoot, ".env")
	dotenv, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}, nil
}

// applyEnvOverrides applies CMAKEGEN_* variables.
func applyEnvOverrides(s *Settings, getenv func(string) string) {
	if v := getenv("CMAKEGEN_DEFAULT_BRANCH"); v != "" {
		s.DefaultBranch = v
	}
	if v := getenv("CMAKEGEN_REMOTE_BASE"); v != "" {
		s.RemoteBase = v
	}
	if v := getenv("CMAKEGEN_BUILD_DIR"); v != "" {
		s.BuildDir = v
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: invalid settings: %s", model.ErrConfiguration, describe(err))
	}
	return nil
}

// Conventions returns the dependency defaults carried by s.
func (s Settings) Conventions() model.Conventions {
	return model.Conventions{
		DefaultBranch: s.DefaultBranch,
		RemoteBase:    s.RemoteBase,
	}
}

// Rules returns the special-cased libraries named by s.
func (s Settings) Rules() fingerprints.Rules {
	return fingerprints.NewRules(s.TestAdapter, s.LoggingLibrary)
}

// BuildOptions returns the generator options carried by s.
func (s Settings) BuildOptions() buildsys.Options {
	return buildsys.Options{
		Name:        s.Name,
		Executable:  s.Executable,
		Install:     s.Install,
		CXXStandard: s.CXXStandard,
	}
}
