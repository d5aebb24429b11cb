package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&goAdapter{})
}

type goAdapter struct{}

func (goAdapter) Language() lang.Language { return lang.Go }

func (goAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "interpreted_string_literal", "raw_string_literal":
		return true
	}
	return false
}

func (goAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "function_declaration", "method_declaration", "func_literal":
		return true
	}
	return false
}

func (goAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "var_declaration", "const_declaration", "short_var_declaration", "assignment_statement":
		return true
	}
	return false
}

func (goAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	switch n.Kind() {
	case "var_declaration", "const_declaration":
		var decls []Declarator
		for i := uint(0); i < n.NamedChildCount(); i++ {
			spec := n.NamedChild(i)
			if spec == nil {
				continue
			}
			if spec.Kind() == "var_spec" || spec.Kind() == "const_spec" {
				decls = append(decls, specDeclarators(spec)...)
			}
		}
		return decls
	case "short_var_declaration", "assignment_statement":
		return pairExprLists(n.ChildByFieldName("left"), n.ChildByFieldName("right"))
	}
	return nil
}

func specDeclarators(spec *tree_sitter.Node) []Declarator {
	var names, values []*tree_sitter.Node
	for i := uint(0); i < spec.NamedChildCount(); i++ {
		c := spec.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier":
			names = append(names, c)
		case "expression_list":
			for j := uint(0); j < c.NamedChildCount(); j++ {
				values = append(values, c.NamedChild(j))
			}
		}
	}
	n2 := len(names)
	if len(values) < n2 {
		n2 = len(values)
	}
	decls := make([]Declarator, 0, len(names))
	for i := 0; i < n2; i++ {
		decls = append(decls, Declarator{Name: names[i], Value: values[i]})
	}
	for i := n2; i < len(names); i++ {
		decls = append(decls, Declarator{Name: names[i], Value: nil})
	}
	return decls
}

func pairExprLists(left, right *tree_sitter.Node) []Declarator {
	if left == nil {
		return nil
	}
	names := exprListIdentifiers(left)
	var values []*tree_sitter.Node
	if right != nil {
		values = exprListChildren(right)
	}
	n2 := len(names)
	if len(values) < n2 {
		n2 = len(values)
	}
	decls := make([]Declarator, 0, n2)
	for i := 0; i < n2; i++ {
		decls = append(decls, Declarator{Name: names[i], Value: values[i]})
	}
	return decls
}

func exprListIdentifiers(n *tree_sitter.Node) []*tree_sitter.Node {
	if n.Kind() == "identifier" {
		return []*tree_sitter.Node{n}
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil && c.Kind() == "identifier" {
			out = append(out, c)
		}
	}
	return out
}

func exprListChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	if n.Kind() != "expression_list" {
		return []*tree_sitter.Node{n}
	}
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func (goAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	return stripQuoted(source, int(n.StartByte()), int(n.EndByte()), 0, false)
}

func (goAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	return nil
}

func (goAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (goAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (goAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineTolerant
}

func (goAdapter) TypeScriptRefinement() bool { return false }
