package release

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StinkyLord/cmakegen/internal/model"
)

// repo is the state of one fake checkout.
type repo struct {
	remote string
	commit string
	tags   []string
	err    error
}

// fakeGit answers Inspector queries from a table keyed by directory name.
type fakeGit map[string]repo

func (f fakeGit) lookup(path string) repo { return f[filepath.Base(path)] }

func (f fakeGit) CurrentCommit(path string) (string, error) {
	r := f.lookup(path)
	return r.commit, r.err
}

func (f fakeGit) TagsAt(path, ref string) ([]string, error) {
	r := f.lookup(path)
	if ref != r.commit {
		return nil, nil
	}
	return r.tags, r.err
}

func (f fakeGit) RemoteURL(path string) (string, error) {
	r := f.lookup(path)
	return r.remote, r.err
}

// depsDir creates a _deps folder holding the given entries; names ending in
// "/" are directories.
func depsDir(t *testing.T, entries ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "bin", "_deps")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, e := range entries {
		p := filepath.Join(dir, e)
		if e[len(e)-1] == '/' {
			require.NoError(t, os.MkdirAll(p, 0755))
		} else {
			require.NoError(t, os.WriteFile(p, nil, 0644))
		}
	}
	return dir
}

func TestFromCheckedOut_TaggedCommit(t *testing.T) {
	dir := depsDir(t, "foo-src/", "foo-build/", "foo-subbuild/")
	git := fakeGit{"foo-src": {remote: "https://github.com/njoy/Foo", commit: "0123abcd", tags: []string{"v2.0"}}}

	reg, err := FromCheckedOut(dir, git, model.DefaultConventions())
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())
	assert.Equal(t, model.Snapshot, reg.Origin())

	d := reg.Dependencies()[0]
	assert.Equal(t, "Foo", d.Name())
	assert.Equal(t, "https://github.com/njoy/Foo", d.Remote())
	assert.False(t, d.LiveAtHead())
	assert.Equal(t, "v2.0", d.Ref().Note())

	tag, err := d.GitTag()
	require.NoError(t, err)
	assert.Equal(t, "0123abcd", tag)

	block, err := d.FetchDeclaration()
	require.NoError(t, err)
	assert.Contains(t, block, "GIT_TAG         0123abcd # v2.0")
}

func TestFromCheckedOut_UntaggedCommit(t *testing.T) {
	dir := depsDir(t, "disco-src/")
	git := fakeGit{"disco-src": {remote: "https://github.com/njoy/disco.git", commit: "feedbeef"}}

	reg, err := FromCheckedOut(dir, git, model.DefaultConventions())
	require.NoError(t, err)
	d := reg.Dependencies()[0]
	assert.Equal(t, "disco", d.Name())
	assert.Empty(t, d.Ref().Note())
}

func TestFromCheckedOut_SortedDiscovery(t *testing.T) {
	dir := depsDir(t, "zeta-src/", "alpha-src/", "mid-src/", "notes-src", "-src/")
	git := fakeGit{
		"zeta-src":  {remote: "https://x/zeta", commit: "1"},
		"alpha-src": {remote: "https://x/alpha", commit: "2"},
		"mid-src":   {remote: "https://x/mid", commit: "3"},
	}

	reg, err := FromCheckedOut(dir, git, model.DefaultConventions())
	require.NoError(t, err)

	var names []string
	for _, d := range reg.Dependencies() {
		names = append(names, d.Name())
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestFromCheckedOut_MissingRemoteFails(t *testing.T) {
	dir := depsDir(t, "ok-src/", "broken-src/")
	git := fakeGit{
		"ok-src":     {remote: "https://x/ok", commit: "1"},
		"broken-src": {commit: "2"},
	}

	_, err := FromCheckedOut(dir, git, model.DefaultConventions())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrResolution)
	assert.Contains(t, err.Error(), "broken")
}

func TestFromCheckedOut_MissingCommitFails(t *testing.T) {
	dir := depsDir(t, "broken-src/")
	git := fakeGit{"broken-src": {remote: "https://x/broken"}}

	_, err := FromCheckedOut(dir, git, model.DefaultConventions())
	assert.ErrorIs(t, err, model.ErrResolution)
}

func TestFromCheckedOut_QueryErrorFails(t *testing.T) {
	dir := depsDir(t, "broken-src/")
	git := fakeGit{"broken-src": {err: errors.New("not a git repository")}}

	_, err := FromCheckedOut(dir, git, model.DefaultConventions())
	assert.ErrorIs(t, err, model.ErrResolution)
	assert.Contains(t, err.Error(), "not a git repository")
}

func TestFromCheckedOut_MissingFolder(t *testing.T) {
	_, err := FromCheckedOut(filepath.Join(t.TempDir(), "nope"), fakeGit{}, model.DefaultConventions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveName(t *testing.T) {
	tests := []struct {
		onDisk, remote, want string
	}{
		{"foo", "https://github.com/njoy/Foo", "Foo"},
		{"endftk", "https://github.com/njoy/ENDFtk.git", "ENDFtk"},
		{"catch-adapter", "git@github.com:njoy/catch-adapter.git", "catch-adapter"},
		// remote names a different repository: keep the directory name
		{"dimwits", "https://github.com/njoy/DimensionalAnalysis", "dimwits"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveName(tt.onDisk, tt.remote), tt.onDisk)
	}
}

func TestFirstTagIsSorted(t *testing.T) {
	assert.Equal(t, "v1.0", firstTag([]string{" v2.0", "v1.0", ""}))
	assert.Empty(t, firstTag(nil))
}
