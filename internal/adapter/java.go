package adapter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&javaAdapter{})
}

type javaAdapter struct{}

func (javaAdapter) Language() lang.Language { return lang.Java }

func (javaAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string_literal", "text_block":
		return true
	}
	return false
}

func (javaAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"method_declaration", "constructor_declaration":
		return true
	}
	return false
}

func (javaAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "local_variable_declaration", "field_declaration", "assignment_expression":
		return true
	}
	return false
}

func (javaAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	switch n.Kind() {
	case "local_variable_declaration", "field_declaration":
		var decls []Declarator
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if c == nil || c.Kind() != "variable_declarator" {
				continue
			}
			name := c.ChildByFieldName("name")
			value := c.ChildByFieldName("value")
			if name != nil {
				decls = append(decls, Declarator{Name: name, Value: value})
			}
		}
		return decls
	case "assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil {
			return nil
		}
		var chain []*tree_sitter.Node
		cur := right
		for cur != nil && cur.Kind() == "assignment_expression" {
			l2 := cur.ChildByFieldName("left")
			r2 := cur.ChildByFieldName("right")
			if l2 == nil || r2 == nil {
				break
			}
			chain = append(chain, l2)
			cur = r2
		}
		if len(chain) == 0 {
			return []Declarator{{Name: left, Value: right}}
		}
		decls := []Declarator{{Name: left, Value: cur}}
		for _, t := range chain {
			decls = append(decls, Declarator{Name: t, Value: cur})
		}
		return decls
	}
	return nil
}

func (javaAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	allowTriple := n.Kind() == "text_block"
	return stripQuoted(source, int(n.StartByte()), int(n.EndByte()), 0, allowTriple)
}

func (javaAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	return nil
}

func (javaAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	if n.Kind() != "binary_expression" {
		return ConcatResult{}, false
	}
	operands := flattenPlusChain(n, isJavaPlus(source), javaLeft, javaRight)
	if len(operands) < 2 {
		return ConcatResult{}, false
	}
	parts := make([]ConcatPart, len(operands))
	for i, op := range operands {
		parts[i] = ConcatPart{Node: op, Literal: op.Kind() == "string_literal" || op.Kind() == "text_block"}
	}
	return ConcatResult{Whole: n, Parts: parts}, true
}

func isJavaPlus(source []byte) func(*tree_sitter.Node) bool {
	return func(n *tree_sitter.Node) bool {
		if n.Kind() != "binary_expression" {
			return false
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil {
			return false
		}
		return strings.TrimSpace(textBetween(source, left, right)) == "+"
	}
}

func javaLeft(n *tree_sitter.Node) *tree_sitter.Node  { return n.ChildByFieldName("left") }
func javaRight(n *tree_sitter.Node) *tree_sitter.Node { return n.ChildByFieldName("right") }

func (javaAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (javaAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineTolerant
}

func (javaAdapter) TypeScriptRefinement() bool { return false }
