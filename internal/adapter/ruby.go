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
	Register(&rubyAdapter{})
}

type rubyAdapter struct{}

func (rubyAdapter) Language() lang.Language { return lang.Ruby }

func (rubyAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string", "heredoc_beginning", "heredoc_body", "string_content":
		return true
	}
	return false
}

func (rubyAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "method", "singleton_method", "class", "module", "do_block", "block":
		return true
	}
	return false
}

func (rubyAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	return n.Kind() == "assignment"
}

func (rubyAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil
	}

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

	if left.Kind() == "left_assignment_list" || left.Kind() == "mlhs" {
		names := rubyListElements(left)
		values := rubyListElements(right)
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

func rubyListElements(n *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (rubyAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	start, end := int(n.StartByte()), int(n.EndByte())
	switch n.Kind() {
	case "heredoc_beginning", "heredoc_body":
		return rubyHeredocShape(source, start, end)
	default:
		return rubyQuotedShape(source, start, end)
	}
}

// rubyQuotedShape handles plain '...'/"..." strings and %q(...)/%Q{...}-
// style percent-literals, whose opener/closer bytes need not match.
func rubyQuotedShape(source []byte, start, end int) prompttype.SpanShape {
	if end-start >= 2 && source[start] == '%' {
		i := start + 1
		if i < end && (source[i] == 'q' || source[i] == 'Q' || source[i] == 'w' || source[i] == 'W' || source[i] == 'i' || source[i] == 'I' || source[i] == 'r') {
			i++
		}
		if i < end {
			opener := source[i]
			closer := matchingCloser(opener)
			innerStart := i + 1
			innerEnd := end
			if innerEnd > innerStart && source[innerEnd-1] == closer {
				innerEnd--
			}
			return prompttype.SpanShape{
				Outer: promptspan.Of(start, end),
				Inner: promptspan.Of(innerStart, innerEnd),
			}
		}
	}
	return stripQuoted(source, start, end, 0, false)
}

// rubyHeredocShape computes a heredoc's shape by scanning the raw source
// forward from its `<<~ID`/`<<-ID`/`<<ID` opener rather than trusting the
// node's own end byte: tree-sitter-ruby's heredoc body is a detached
// sibling node elsewhere in the tree, not a child of the opener, so the
// opener node's reported end covers only `<<~TEXT` itself. Outer covers
// <<LABEL through body-end; inner covers the body lines between the
// opener's terminating newline and the closing label line.
func rubyHeredocShape(source []byte, start, end int) prompttype.SpanShape {
	i := start + 2 // skip "<<"
	for i < len(source) && (source[i] == '~' || source[i] == '-') {
		i++
	}
	var quote byte
	if i < len(source) && (source[i] == '\'' || source[i] == '"') {
		quote = source[i]
		i++
	}
	tagStart := i
	for i < len(source) && isIdentByte(source[i]) {
		i++
	}
	tag := string(source[tagStart:i])
	if quote != 0 && i < len(source) && source[i] == quote {
		i++
	}
	for i < len(source) && source[i] != '\n' {
		i++
	}
	innerStart := i + 1
	if innerStart > len(source) {
		innerStart = len(source)
	}

	termLineStart := -1
	lineStart := innerStart
	for lineStart <= len(source) {
		lineEnd := lineStart
		for lineEnd < len(source) && source[lineEnd] != '\n' {
			lineEnd++
		}
		if tag != "" && strings.TrimSpace(string(source[lineStart:lineEnd])) == tag {
			termLineStart = lineStart
			break
		}
		if lineEnd >= len(source) {
			break
		}
		lineStart = lineEnd + 1
	}
	if termLineStart < 0 {
		termLineStart = end
		if termLineStart < innerStart {
			termLineStart = innerStart
		}
	}

	innerEnd := termLineStart
	if innerEnd < innerStart {
		innerEnd = innerStart
	}

	outerEnd := termLineStart
	if outerEnd > len(source) {
		outerEnd = len(source)
	}

	return prompttype.SpanShape{
		Outer: promptspan.Of(start, outerEnd),
		Inner: promptspan.Of(innerStart, innerEnd),
	}
}

func (rubyAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	switch n.Kind() {
	case "string", "heredoc_beginning", "heredoc_body":
		return scanBraceInterpolations(source, inner.Start, inner.End, "#{")
	default:
		return nil
	}
}

func (rubyAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	if n.Kind() != "binary" {
		return ConcatResult{}, false
	}
	operands := flattenPlusChain(n, isRubyPlus(source), rubyLeft, rubyRight)
	if len(operands) < 2 {
		return ConcatResult{}, false
	}
	parts := make([]ConcatPart, len(operands))
	for i, op := range operands {
		parts[i] = ConcatPart{Node: op, Literal: rubyAdapter{}.IsStringLike(op)}
	}
	return ConcatResult{Whole: n, Parts: parts}, true
}

func isRubyPlus(source []byte) func(*tree_sitter.Node) bool {
	return func(n *tree_sitter.Node) bool {
		if n.Kind() != "binary" {
			return false
		}
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if left == nil || right == nil {
			return false
		}
		return strings.TrimSpace(textBetween(source, left, right)) == "+"
	}
}

func rubyLeft(n *tree_sitter.Node) *tree_sitter.Node  { return n.ChildByFieldName("left") }
func rubyRight(n *tree_sitter.Node) *tree_sitter.Node { return n.ChildByFieldName("right") }

func (rubyAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	return ConcatResult{}, false
}

func (rubyAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineTolerant
}

func (rubyAdapter) TypeScriptRefinement() bool { return false }
