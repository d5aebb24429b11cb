package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&tsAdapter{l: lang.JavaScript})
	Register(&tsAdapter{l: lang.TypeScript})
	Register(&tsAdapter{l: lang.TSX})
}

// tsAdapter covers JavaScript, TypeScript and TSX/JSX: the three grammars
// share node kinds closely enough for one adapter to serve all of them.
type tsAdapter struct {
	l lang.Language
}

func (a *tsAdapter) Language() lang.Language { return a.l }

func (*tsAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string", "template_string":
		return true
	}
	return false
}

func (*tsAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "function_declaration", "function_expression", "arrow_function",
		"method_definition", "class_declaration", "class", "generator_function_declaration":
		return true
	}
	return false
}

func (*tsAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration", "assignment_expression":
		return true
	}
	return false
}

func (*tsAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		var decls []Declarator
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if c == nil || c.Kind() != "variable_declarator" {
				continue
			}
			name := c.ChildByFieldName("name")
			value := c.ChildByFieldName("value")
			if name == nil {
				continue
			}
			decls = append(decls, expandBinding(name, value)...)
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
		if len(chain) > 0 {
			decls := []Declarator{{Name: left, Value: cur}}
			for _, t := range chain {
				decls = append(decls, Declarator{Name: t, Value: cur})
			}
			return decls
		}
		return expandBinding(left, right)
	}
	return nil
}

// expandBinding pairs a (possibly destructured) binding target with its
// value: a plain identifier with its value directly, or each element of an
// array pattern with the corresponding element of an array-literal value.
func expandBinding(name, value *tree_sitter.Node) []Declarator {
	if name.Kind() == "identifier" {
		return []Declarator{{Name: name, Value: value}}
	}
	if name.Kind() != "array_pattern" || value == nil || value.Kind() != "array" {
		return nil
	}
	var names, values []*tree_sitter.Node
	for i := uint(0); i < name.NamedChildCount(); i++ {
		if c := name.NamedChild(i); c != nil && c.Kind() == "identifier" {
			names = append(names, c)
		}
	}
	for i := uint(0); i < value.NamedChildCount(); i++ {
		values = append(values, value.NamedChild(i))
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

func (*tsAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	start, end := int(n.StartByte()), int(n.EndByte())
	return stripQuoted(source, start, end, 0, false)
}

func (*tsAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	if n.Kind() != "template_string" {
		return nil
	}
	return scanBraceInterpolations(source, inner.Start, inner.End, "${")
}

func (*tsAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (*tsAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (*tsAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineTolerant
}

func (*tsAdapter) TypeScriptRefinement() bool { return true }
