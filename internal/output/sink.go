// Package output writes generated artifacts.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Sink receives generated artifacts. Each Write replaces the artifact at
// path wholesale.
type Sink interface {
	Write(path string, content []byte) error
}

// FileSink writes artifacts to disk. A write goes to a temporary file in the
// target directory and is renamed into place, so a failed write leaves the
// previous artifact untouched.
type FileSink struct {
	// Perm is the mode of written files; 0644 when zero.
	Perm os.FileMode
}

func (s FileSink) Write(path string, content []byte) error {
	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode of %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}

// DryRunSink prints artifacts to W instead of writing them.
type DryRunSink struct {
	W io.Writer
}

func (s DryRunSink) Write(path string, content []byte) error {
	if _, err := fmt.Fprintf(s.W, "==> %s <==\n", path); err != nil {
		return err
	}
	_, err := s.W.Write(content)
	return err
}

// MemorySink keeps artifacts in memory, keyed by path.
type MemorySink struct {
	Files map[string]string
}

func NewMemorySink() *MemorySink {
	return &MemorySink{Files: map[string]string{}}
}

func (s *MemorySink) Write(path string, content []byte) error {
	s.Files[path] = string(content)
	return nil
}

// Paths returns the written paths in sorted order.
func (s *MemorySink) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
