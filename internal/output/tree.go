package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/StinkyLord/cmakegen/internal/fingerprints"
	"github.com/StinkyLord/cmakegen/internal/model"
	"github.com/StinkyLord/cmakegen/internal/scanner"
)

// PrintTree renders a module's classified source tree and its dependencies.
// If outputPath is "-", it writes to stdout.
func PrintTree(name string, tree *scanner.SourceTree, deps *model.Registry, rules fingerprints.Rules, outputPath string) error {
	if outputPath == "-" {
		return WriteTree(os.Stdout, name, tree, deps, rules)
	}

	var b strings.Builder
	if err := WriteTree(&b, name, tree, deps, rules); err != nil {
		return err
	}
	return FileSink{}.Write(outputPath, []byte(b.String()))
}

// WriteTree writes the rendering of PrintTree to w.
func WriteTree(w io.Writer, name string, tree *scanner.SourceTree, deps *model.Registry, rules fingerprints.Rules) error {
	kind := "compiled library"
	if tree.HeaderOnly() {
		kind = "header-only library"
	}
	root := gtree.NewRoot(fmt.Sprintf("%s (%s)", name, kind))

	addPaths(root.Add("sources"), tree.CompiledSources())
	addPaths(root.Add("headers"), tree.HeaderFiles())

	tests := root.Add("tests")
	for _, dir := range tree.TestDirectories() {
		node := tests.Add(dir)
		for _, f := range tree.TestSources(dir) {
			node.Add(f)
		}
	}

	if deps != nil {
		dn := root.Add(fmt.Sprintf("dependencies (%s)", deps.Origin()))
		for _, d := range deps.Dependencies() {
			tag, err := d.GitTag()
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s @ %s", d.Name(), tag)
			if linkage := rules.Classify(d.Name()); linkage != fingerprints.Standard {
				label += " [" + linkage.String() + "]"
			}
			dn.Add(label)
		}
	}

	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("failed to render tree: %w", err)
	}
	return nil
}

// addPaths nests slash-separated paths under parent, one node per segment.
func addPaths(parent *gtree.Node, paths []string) {
	nodes := map[string]*gtree.Node{}
	for _, p := range paths {
		cur := parent
		prefix := ""
		for _, seg := range strings.Split(p, "/") {
			prefix += "/" + seg
			next, ok := nodes[prefix]
			if !ok {
				next = cur.Add(seg)
				nodes[prefix] = next
			}
			cur = next
		}
	}
}
