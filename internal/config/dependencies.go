// Package config loads dependency files and the generator's settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/StinkyLord/cmakegen/internal/model"
)

// DependencyFile maps repository names to their ordered dependency
// declarations.
type DependencyFile map[string][]model.Spec

// specKeys are the recognised keys of an object declaration.
var specKeys = map[string]bool{
	"name": true, "remote": true, "branch": true, "tag": true,
	"package": true, "library": true,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadDependencies reads a dependency file. The format follows the
// extension: .yaml/.yml, .toml, anything else is JSON.
func LoadDependencies(path string) (DependencyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency file %s: %w", path, err)
	}
	file, err := ParseDependencies(data, Format(path))
	if err != nil {
		return nil, fmt.Errorf("dependency file %s: %w", path, err)
	}
	return file, nil
}

// Format returns the dependency file format implied by path.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

// ParseDependencies decodes a dependency file. Each declaration is either a
// bare repository name or an object with the keys name, remote, branch, tag,
// package and library.
func ParseDependencies(data []byte, format string) (DependencyFile, error) {
	raw := map[string][]any{}
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &raw)
	case "toml":
		err = toml.Unmarshal(data, &raw)
	case "json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported dependency file format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", format, err)
	}

	file := make(DependencyFile, len(raw))
	for repo, items := range raw {
		specs := make([]model.Spec, 0, len(items))
		for i, item := range items {
			spec, err := toSpec(item)
			if err != nil {
				return nil, fmt.Errorf("%s dependency #%d: %w", repo, i+1, err)
			}
			specs = append(specs, spec)
		}
		file[repo] = specs
	}
	return file, nil
}

func toSpec(item any) (model.Spec, error) {
	var spec model.Spec
	switch v := item.(type) {
	case string:
		spec.Name = v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !specKeys[k] {
				return spec, fmt.Errorf("%w: unknown key %q", model.ErrConfiguration, k)
			}
			s, ok := v[k].(string)
			if !ok {
				return spec, fmt.Errorf("%w: key %q must be a string, got %T", model.ErrConfiguration, k, v[k])
			}
			switch k {
			case "name":
				spec.Name = s
			case "remote":
				spec.Remote = s
			case "branch":
				spec.Branch = s
			case "tag":
				spec.Tag = s
			case "package":
				spec.Package = s
			case "library":
				spec.Library = s
			}
		}
	default:
		return spec, fmt.Errorf("%w: %v is an invalid dependency", model.ErrConfiguration, item)
	}

	if err := validate.Struct(spec); err != nil {
		return spec, fmt.Errorf("%w: %s", model.ErrConfiguration, describe(err))
	}
	return spec, nil
}

// describe turns validator errors into a readable sentence.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	var msgs []string
	seen := map[string]bool{}
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required_without":
			msg = "dependency must have name and/or remote defined"
		case "excluded_with":
			msg = "branch and tag are mutually exclusive"
		case "url":
			msg = strings.ToLower(fe.Field()) + " must be a URL"
		default:
			msg = fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag())
		}
		if !seen[msg] {
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// For returns the declarations of repo. A repository missing from the file
// has no dependencies.
func (f DependencyFile) For(repo string) []model.Spec {
	return f[repo]
}

// Repositories returns the repository names in sorted order.
func (f DependencyFile) Repositories() []string {
	names := make([]string, 0, len(f))
	for n := range f {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
