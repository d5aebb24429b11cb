package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&pythonAdapter{})
}

type pythonAdapter struct{}

func (pythonAdapter) Language() lang.Language { return lang.Python }

func (pythonAdapter) IsStringLike(n *tree_sitter.Node) bool {
	return n.Kind() == "string"
}

func (pythonAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "function_definition", "class_definition":
		return true
	}
	return false
}

func (pythonAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	return n.Kind() == "assignment"
}

func (pythonAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil
	}

	// Chained assignment: a = b = "hi". Each level's left is a single
	// target; the final non-assignment right is the shared value.
	var chain []*tree_sitter.Node
	cur := right
	for cur != nil && cur.Kind() == "assignment" {
		l2 := cur.ChildByFieldName("left")
		r2 := cur.ChildByFieldName("right")
		if l2 == nil || r2 == nil {
			break
		}
		chain = append(chain, l2)
		cur = r2
	}
	if len(chain) > 0 {
		finalValue := cur
		decls := []Declarator{{Name: left, Value: finalValue}}
		for _, t := range chain {
			decls = append(decls, Declarator{Name: t, Value: finalValue})
		}
		return decls
	}

	names := destructureNames(left)
	values := destructureValues(right, len(names))
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

// destructureNames returns the identifier nodes bound by an assignment's
// left-hand side: a single name, or each name in a tuple/list pattern.
func destructureNames(left *tree_sitter.Node) []*tree_sitter.Node {
	if left.Kind() == "identifier" {
		return []*tree_sitter.Node{left}
	}
	var names []*tree_sitter.Node
	for i := uint(0); i < left.NamedChildCount(); i++ {
		c := left.NamedChild(i)
		if c != nil && c.Kind() == "identifier" {
			names = append(names, c)
		}
	}
	return names
}

// destructureValues pairs a right-hand-side expression with n targets: the
// expression itself when n == 1, or its elements when it's a tuple/list
// (of any arity; the caller pairs targets and elements by position).
func destructureValues(right *tree_sitter.Node, n int) []*tree_sitter.Node {
	if n <= 1 {
		return []*tree_sitter.Node{right}
	}
	switch right.Kind() {
	case "expression_list", "tuple", "list":
		var values []*tree_sitter.Node
		for i := uint(0); i < right.NamedChildCount(); i++ {
			values = append(values, right.NamedChild(i))
		}
		return values
	default:
		return nil
	}
}

func (pythonAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	start, end := int(n.StartByte()), int(n.EndByte())
	prefixLen := 0
	for start+prefixLen < end && isPythonStringPrefixByte(source[start+prefixLen]) {
		prefixLen++
	}
	return stripQuoted(source, start, end, prefixLen, true)
}

func isPythonStringPrefixByte(b byte) bool {
	switch b {
	case 'f', 'F', 'r', 'R', 'u', 'U', 'b', 'B', 't', 'T':
		return true
	}
	return false
}

func isPythonInterpolating(source []byte, nodeStart int) bool {
	i := nodeStart
	for i < len(source) && isPythonStringPrefixByte(source[i]) {
		if source[i] == 'f' || source[i] == 'F' || source[i] == 't' || source[i] == 'T' {
			return true
		}
		i++
	}
	return false
}

func (pythonAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	if !isPythonInterpolating(source, int(n.StartByte())) {
		return nil
	}
	return scanEscapedBraceInterpolations(source, inner.Start, inner.End)
}

func (pythonAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (pythonAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (pythonAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineBreaks
}

func (pythonAdapter) TypeScriptRefinement() bool { return false }
