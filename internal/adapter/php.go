package adapter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/promptspan"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&phpAdapter{})
}

type phpAdapter struct{}

func (phpAdapter) Language() lang.Language { return lang.PHP }

func (phpAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string", "encapsed_string", "heredoc", "nowdoc":
		return true
	}
	return false
}

func (phpAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "function_definition", "method_declaration", "class_declaration",
		"interface_declaration", "trait_declaration":
		return true
	}
	return false
}

func (phpAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	return n.Kind() == "assignment_expression"
}

func (phpAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
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
		finalValue := cur
		decls := []Declarator{{Name: left, Value: finalValue}}
		for _, t := range chain {
			decls = append(decls, Declarator{Name: t, Value: finalValue})
		}
		return decls
	}

	// list($a, $b) = [$x, $y] / [$a, $b] = [$x, $y] destructuring.
	if left.Kind() == "list_literal" || left.Kind() == "array_creation_expression" {
		names := phpDestructureElements(left)
		values := phpDestructureElements(right)
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

	return []Declarator{{Name: left, Value: right}}
}

func phpDestructureElements(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		if c.Kind() == "array_element_initializer" {
			if v := c.NamedChild(0); v != nil {
				out = append(out, v)
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

func (phpAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	start, end := int(n.StartByte()), int(n.EndByte())
	switch n.Kind() {
	case "heredoc", "nowdoc":
		return phpHeredocShape(source, start, end)
	default:
		return stripQuoted(source, start, end, 0, false)
	}
}

// phpHeredocShape strips a heredoc/nowdoc's `<<<ID` / `<<<'ID'` opener line
// and its closing `ID;`-or-bare identifier line, leaving the body as inner.
func phpHeredocShape(source []byte, start, end int) prompttype.SpanShape {
	i := start
	for i < end && source[i] != '\n' {
		i++
	}
	innerStart := i + 1
	if innerStart > end {
		innerStart = end
	}

	j := end
	for j > innerStart && (source[j-1] == '\n' || source[j-1] == '\r' || source[j-1] == ' ' || source[j-1] == '\t' || source[j-1] == ';') {
		j--
	}
	for j > innerStart && isIdentByte(source[j-1]) {
		j--
	}
	innerEnd := j
	for innerEnd > innerStart && (source[innerEnd-1] == '\n' || source[innerEnd-1] == '\r') {
		innerEnd--
	}
	if innerEnd < innerStart {
		innerEnd = innerStart
	}

	return prompttype.SpanShape{
		Outer: promptspan.Of(start, end),
		Inner: promptspan.Of(innerStart, innerEnd),
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (phpAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	switch n.Kind() {
	case "encapsed_string", "heredoc":
		return scanPHPInterpolations(source, inner.Start, inner.End)
	default:
		return nil
	}
}

// scanPHPInterpolations finds `{$expr}`-braced interpolations and bare
// `$name` variable references inside source[start:end).
func scanPHPInterpolations(source []byte, start, end int) []prompttype.PromptVar {
	var vars []prompttype.PromptVar
	i := start
	for i < end {
		if source[i] == '{' && i+1 < end && source[i+1] == '$' {
			depth := 1
			j := i + 1
			for j < end && depth > 0 {
				switch source[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				break
			}
			vars = append(vars, promptspan.NewVar(source, i, j, i+1, j-1))
			i = j
			continue
		}
		if source[i] == '$' && i+1 < end && isVarStartByte(source[i+1]) {
			j := i + 1
			for j < end && isIdentByte(source[j]) {
				j++
			}
			vars = append(vars, promptspan.NewVar(source, i, j, i, j))
			i = j
			continue
		}
		i++
	}
	return vars
}

func isVarStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func (phpAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	if n.Kind() != "binary_expression" {
		return ConcatResult{}, false
	}
	operands := flattenPlusChain(n, isPHPDot(source), phpLeft, phpRight)
	if len(operands) < 2 {
		return ConcatResult{}, false
	}
	parts := make([]ConcatPart, len(operands))
	for i, op := range operands {
		parts[i] = ConcatPart{Node: op, Literal: phpAdapter{}.IsStringLike(op)}
	}
	return ConcatResult{Whole: n, Parts: parts}, true
}

// isPHPDot recognizes PHP's `.` string concatenation operator, distinct
// from the `+`-chain every other host language uses.
func isPHPDot(source []byte) func(*tree_sitter.Node) bool {
	return func(n *tree_sitter.Node) bool {
		if n.Kind() != "binary_expression" {
			return false
		}
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if left == nil || right == nil {
			return false
		}
		return strings.TrimSpace(textBetween(source, left, right)) == "."
	}
}

func phpLeft(n *tree_sitter.Node) *tree_sitter.Node  { return n.ChildByFieldName("left") }
func phpRight(n *tree_sitter.Node) *tree_sitter.Node { return n.ChildByFieldName("right") }

func (phpAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (phpAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineBreaks
}

func (phpAdapter) TypeScriptRefinement() bool { return false }
