// ptastdump prints a file's syntax tree alongside each string-like node's
// computed span shape (outer/inner), for debugging adapter literal-shape
// detection across the seven host languages.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/adapter"
	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/parser"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ptastdump <file>")
		os.Exit(1)
	}
	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	l, ok := lang.LanguageForExtension(filepath.Ext(path))
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unsupported file extension: %s\n", path)
		os.Exit(1)
	}
	a := adapter.For(l)
	if a == nil {
		fmt.Fprintf(os.Stderr, "error: no adapter registered for %s\n", l)
		os.Exit(1)
	}

	tree, perr, err := parser.ParseChecked(l, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if perr != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", perr)
		os.Exit(1)
	}
	defer tree.Close()

	printNode(tree.RootNode(), source, a, 0)
}

func printNode(node *tree_sitter.Node, source []byte, a adapter.Adapter, indent int) {
	if node == nil {
		return
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}

	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}

	if a.IsStringLike(node) {
		shape := a.SpanShape(node, source)
		fmt.Printf("%s%s outer=%v inner=%v %q\n", prefix, node.Kind(), shape.Outer, shape.Inner, text)
	} else {
		fmt.Printf("%s%s %q\n", prefix, node.Kind(), text)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		printNode(node.Child(i), source, a, indent+1)
	}
}
