// Package scanner classifies the files of a C++ module's source tree.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

const (
	// SourceDir is the directory under the module root that is scanned.
	SourceDir = "src"
	// TestDirName is the name of a unit-test directory.
	TestDirName = "test"
)

// compiledExts and headerExts map file extensions to their classification.
var (
	compiledExts = map[string]bool{".cpp": true}
	headerExts   = map[string]bool{".hpp": true}
)

// SourceTree is the classified content of a module's src directory. All
// paths are relative to src and slash-separated. A SourceTree never changes
// after Scan; scan again to observe filesystem changes.
type SourceTree struct {
	compiled    []string
	headers     []string
	tests       []string
	testSources map[string][]string
}

// ScanDir scans the module rooted at dir on the real filesystem.
func ScanDir(dir string) (*SourceTree, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access module %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("module %q is not a directory", dir)
	}
	return Scan(os.DirFS(dir))
}

// Scan walks the src directory of the module rooted at fsys. A module without
// src yields an empty tree. Directories named "test" are recorded and not
// descended into; their own .cpp files are kept aside for the test build
// files.
func Scan(fsys fs.FS) (*SourceTree, error) {
	t := &SourceTree{testSources: map[string][]string{}}

	if _, err := fs.Stat(fsys, SourceDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("cannot access %s: %w", SourceDir, err)
	}

	err := fs.WalkDir(fsys, SourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, SourceDir), "/")

		if d.IsDir() {
			if d.Name() == TestDirName && rel != "" {
				sources, err := listCompiled(fsys, p)
				if err != nil {
					return err
				}
				t.tests = append(t.tests, rel)
				t.testSources[rel] = sources
				return fs.SkipDir
			}
			return nil
		}

		ext := path.Ext(d.Name())
		switch {
		case compiledExts[ext]:
			t.compiled = append(t.compiled, rel)
		case headerExts[ext]:
			t.headers = append(t.headers, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", SourceDir, err)
	}

	sort.Strings(t.compiled)
	sort.Strings(t.headers)
	sort.Strings(t.tests)
	return t, nil
}

// listCompiled returns the sorted compiled-source files directly inside dir.
func listCompiled(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !compiledExts[path.Ext(e.Name())] {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// CompiledSources returns the .cpp files outside test directories.
func (t *SourceTree) CompiledSources() []string { return clone(t.compiled) }

// HeaderFiles returns the .hpp files outside test directories.
func (t *SourceTree) HeaderFiles() []string { return clone(t.headers) }

// TestDirectories returns every directory named "test".
func (t *SourceTree) TestDirectories() []string { return clone(t.tests) }

// TestSources returns the .cpp files directly inside the test directory dir.
func (t *SourceTree) TestSources(dir string) []string { return clone(t.testSources[dir]) }

// HeaderOnly reports whether the module has no compiled sources.
func (t *SourceTree) HeaderOnly() bool { return len(t.compiled) == 0 }

func clone(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
