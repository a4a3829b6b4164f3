// Package release pins a module's dependencies to the commits currently
// checked out in its FetchContent dependency folder.
package release

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/StinkyLord/cmakegen/internal/model"
)

// SourceSuffix marks a FetchContent source checkout inside the _deps folder.
const SourceSuffix = "-src"

// Inspector answers the three repository queries a release snapshot needs.
type Inspector interface {
	CurrentCommit(path string) (string, error)
	TagsAt(path, ref string) ([]string, error)
	RemoteURL(path string) (string, error)
}

// DepsDir returns the FetchContent dependency folder of a module built in
// buildDir (relative to the module root).
func DepsDir(moduleRoot, buildDir string) string {
	return filepath.Join(moduleRoot, buildDir, "_deps")
}

// FromCheckedOut discovers every "<name>-src" checkout in depsDir, in sorted
// order, and pins each to its current commit. A checkout without a remote or
// a commit fails the whole snapshot.
func FromCheckedOut(depsDir string, git Inspector, conv model.Conventions) (*model.Registry, error) {
	entries, err := os.ReadDir(depsDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read dependency folder %q: %w", depsDir, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), SourceSuffix) && e.Name() != SourceSuffix {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	reg := model.NewSnapshotRegistry()
	for _, dir := range dirs {
		d, err := snapshot(filepath.Join(depsDir, dir), strings.TrimSuffix(dir, SourceSuffix), git, conv)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func snapshot(path, onDisk string, git Inspector, conv model.Conventions) (*model.Dependency, error) {
	remote, err := git.RemoteURL(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading remote: %v", model.ErrResolution, onDisk, err)
	}
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return nil, fmt.Errorf("%w: %s has no remote", model.ErrResolution, onDisk)
	}

	commit, err := git.CurrentCommit(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading commit: %v", model.ErrResolution, onDisk, err)
	}
	commit = strings.TrimSpace(commit)
	if commit == "" {
		return nil, fmt.Errorf("%w: %s has no resolvable commit", model.ErrResolution, onDisk)
	}

	tags, err := git.TagsAt(path, commit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading tags: %v", model.ErrResolution, onDisk, err)
	}

	name := ResolveName(onDisk, remote)
	d, err := model.NewDependency(model.Spec{Name: name, Remote: remote, Tag: commit}, conv)
	if err != nil {
		return nil, err
	}

	ref := model.Pinned(commit)
	if tag := firstTag(tags); tag != "" {
		ref = ref.Annotated(tag)
	}
	return d.WithRef(ref), nil
}

// ResolveName picks a dependency's name. FetchContent lowercases checkout
// directories, so the remote's spelling wins when the two agree ignoring
// case; otherwise the on-disk name is kept as is.
func ResolveName(onDisk, remote string) string {
	fromRemote := model.RepoName(remote)
	if fromRemote != "" && strings.EqualFold(fromRemote, onDisk) {
		return fromRemote
	}
	return onDisk
}

func firstTag(tags []string) string {
	var clean []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	sort.Strings(clean)
	return clean[0]
}
