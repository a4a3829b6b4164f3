package release

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Git implements Inspector with the git command-line client.
type Git struct {
	// Binary is the git executable; "git" on PATH when empty.
	Binary string
}

func (g Git) run(dir string, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.Command(bin, append([]string{"-C", dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s in %s: %w: %s", strings.Join(args, " "), dir, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentCommit returns the hash of HEAD.
func (g Git) CurrentCommit(path string) (string, error) {
	return g.run(path, "rev-parse", "HEAD")
}

// TagsAt returns the tags pointing at ref.
func (g Git) TagsAt(path, ref string) ([]string, error) {
	out, err := g.run(path, "tag", "--points-at", ref)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// RemoteURL returns the fetch URL of the origin remote.
func (g Git) RemoteURL(path string) (string, error) {
	return g.run(path, "remote", "get-url", "origin")
}
