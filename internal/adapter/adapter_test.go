package adapter

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/parser"
)

// findNode parses source in language l and returns the first node (in a
// pre-order walk) whose Kind() matches kind, or nil.
func findNode(t *testing.T, l lang.Language, source []byte, kind string) *tree_sitter.Node {
	t.Helper()
	tree, err := parser.Parse(l, source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(tree.Close)

	var found *tree_sitter.Node
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil || found != nil {
			return
		}
		if n.Kind() == kind {
			found = n
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	if found == nil {
		t.Fatalf("no %q node found in %q", kind, source)
	}
	return found
}

func text(source []byte, start, end int) string {
	return string(source[start:end])
}
