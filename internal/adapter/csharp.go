package adapter

import (
	"strconv"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/promptspan"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func init() {
	Register(&csharpAdapter{})
}

type csharpAdapter struct{}

func (csharpAdapter) Language() lang.Language { return lang.CSharp }

func (csharpAdapter) IsStringLike(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "string_literal", "interpolated_string_expression", "verbatim_string_literal":
		return true
	}
	return false
}

func (csharpAdapter) IsScopeBoundary(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "class_declaration", "struct_declaration", "interface_declaration",
		"method_declaration", "constructor_declaration":
		return true
	}
	return false
}

func (csharpAdapter) IsDeclaration(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "variable_declaration", "assignment_expression":
		return true
	}
	return false
}

func (csharpAdapter) DeclarationsIn(n *tree_sitter.Node) []Declarator {
	switch n.Kind() {
	case "variable_declaration":
		var decls []Declarator
		for i := uint(0); i < n.NamedChildCount(); i++ {
			c := n.NamedChild(i)
			if c == nil || c.Kind() != "variable_declarator" {
				continue
			}
			name := c.ChildByFieldName("name")
			if name == nil {
				for j := uint(0); j < c.NamedChildCount(); j++ {
					if nc := c.NamedChild(j); nc != nil && nc.Kind() == "identifier" {
						name = nc
						break
					}
				}
			}
			var value *tree_sitter.Node
			for j := uint(0); j < c.NamedChildCount(); j++ {
				if eq := c.NamedChild(j); eq != nil && eq.Kind() == "equals_value_clause" {
					value = eq.NamedChild(0)
				}
			}
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

func (csharpAdapter) SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape {
	start, end := int(n.StartByte()), int(n.EndByte())
	prefixLen := 0
	for start+prefixLen < end && (source[start+prefixLen] == '@' || source[start+prefixLen] == '$') {
		prefixLen++
	}
	return stripQuoted(source, start, end, prefixLen, false)
}

func (csharpAdapter) Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar {
	if n.Kind() != "interpolated_string_expression" {
		return nil
	}
	return scanEscapedBraceInterpolations(source, inner.Start, inner.End)
}

func (csharpAdapter) TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	if n.Kind() != "binary_expression" {
		return ConcatResult{}, false
	}
	operands := flattenPlusChain(n, isCSharpPlus(source), csLeft, csRight)
	if len(operands) < 2 {
		return ConcatResult{}, false
	}
	parts := make([]ConcatPart, len(operands))
	for i, op := range operands {
		parts[i] = ConcatPart{Node: op, Literal: csharpAdapter{}.IsStringLike(op)}
	}
	return ConcatResult{Whole: n, Parts: parts}, true
}

func isCSharpPlus(source []byte) func(*tree_sitter.Node) bool {
	return func(n *tree_sitter.Node) bool {
		if n.Kind() != "binary_expression" {
			return false
		}
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		if left == nil || right == nil {
			return false
		}
		return strings.TrimSpace(textBetween(source, left, right)) == "+"
	}
}

func csLeft(n *tree_sitter.Node) *tree_sitter.Node  { return n.ChildByFieldName("left") }
func csRight(n *tree_sitter.Node) *tree_sitter.Node { return n.ChildByFieldName("right") }

// TryFormat recognizes `String.Format("fmt {0} ...", arg0, arg1, ...)`.
// Vars carry each argument's own source span — format calls diverge from
// the inner-containment rule the way concatenation adapters do; content
// tiles the format literal's inner span with Str segments and Var(index)
// markers at each `{N}` placeholder, independent of argument physical
// position.
func (csharpAdapter) TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool) {
	if n.Kind() != "invocation_expression" {
		return ConcatResult{}, false
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "member_access_expression" {
		return ConcatResult{}, false
	}
	obj := fn.ChildByFieldName("expression")
	name := fn.ChildByFieldName("name")
	if obj == nil || name == nil {
		return ConcatResult{}, false
	}
	if string(source[obj.StartByte():obj.EndByte()]) != "String" || string(source[name.StartByte():name.EndByte()]) != "Format" {
		return ConcatResult{}, false
	}

	argList := n.ChildByFieldName("arguments")
	if argList == nil {
		return ConcatResult{}, false
	}
	var args []*tree_sitter.Node
	for i := uint(0); i < argList.NamedChildCount(); i++ {
		a := argList.NamedChild(i)
		if a == nil {
			continue
		}
		if a.Kind() == "argument" {
			if e := a.ChildByFieldName("expression"); e != nil {
				a = e
			}
		}
		args = append(args, a)
	}
	if len(args) < 2 {
		return ConcatResult{}, false
	}
	fmtLiteral := args[0]
	if !(csharpAdapter{}).IsStringLike(fmtLiteral) {
		return ConcatResult{}, false
	}

	fmtShape := (csharpAdapter{}).SpanShape(fmtLiteral, source)
	values := args[1:]

	content := buildFormatContent(source, fmtShape.Inner, len(values))

	parts := []ConcatPart{{Node: fmtLiteral, Literal: true}}
	for _, v := range values {
		parts = append(parts, ConcatPart{Node: v, Literal: false})
	}

	return ConcatResult{Whole: n, Parts: parts, Content: content}, true
}

// buildFormatContent scans a format literal's inner text for `{N}`
// placeholders (ignoring `{{`/`}}` escapes) and tiles it into Str/Var
// tokens. A placeholder whose index is not a number or is outside the
// argument count is not a Var and stays part of the surrounding Str text.
func buildFormatContent(source []byte, inner prompttype.Span, argCount int) []prompttype.PromptContentToken {
	var tokens []prompttype.PromptContentToken
	cursor := inner.Start
	i := inner.Start
	for i < inner.End {
		if source[i] == '{' && i+1 < inner.End && source[i+1] == '{' {
			i += 2
			continue
		}
		if source[i] == '}' && i+1 < inner.End && source[i+1] == '}' {
			i += 2
			continue
		}
		if source[i] == '{' {
			close := findUnescaped(source, i+1, inner.End, '}')
			if close < 0 {
				break
			}
			digits := string(source[i+1 : close])
			// strip an optional alignment/format-spec suffix after ',' or ':'
			if comma := strings.IndexAny(digits, ",:"); comma >= 0 {
				digits = digits[:comma]
			}
			idx, err := strconv.Atoi(strings.TrimSpace(digits))
			if err != nil || idx < 0 || idx >= argCount {
				i = close + 1
				continue
			}
			if i > cursor {
				tokens = append(tokens, prompttype.PromptContentToken{
					Kind: prompttype.ContentStr,
					Span: promptspan.Of(cursor, i),
				})
			}
			tokens = append(tokens, prompttype.PromptContentToken{
				Kind:  prompttype.ContentVar,
				Span:  promptspan.Of(i, close+1),
				Index: idx,
			})
			cursor = close + 1
			i = close + 1
			continue
		}
		i++
	}
	if cursor < inner.End {
		tokens = append(tokens, prompttype.PromptContentToken{
			Kind: prompttype.ContentStr,
			Span: promptspan.Of(cursor, inner.End),
		})
	}
	return tokens
}

func (csharpAdapter) AdjacencyMode() promptcomment.AdjacencyMode {
	return promptcomment.AdjacencyBlankLineTolerant
}

func (csharpAdapter) TypeScriptRefinement() bool { return false }
