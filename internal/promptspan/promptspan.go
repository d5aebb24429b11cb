// Package promptspan provides the span helpers that the adapters and the
// extraction driver build on: SpanShape and PromptVar construction from
// byte offsets, enclosure spans, var-ordering checks and content-token
// assembly, bit-exact against the source buffer. Violating the
// outer/inner containment invariant is a programmer error and panics
// rather than returning an error.
package promptspan

import (
	"fmt"

	"github.com/sourceprompt/promptscan/internal/prompttype"
)

// Of builds a Span from a pair of byte offsets.
func Of(start, end int) prompttype.Span {
	return prompttype.Span{Start: start, End: end}
}

// assertSpan panics if span falls outside [0, sourceLen] or is inverted.
// An out-of-range span is a programmer error and is never surfaced as a
// user-visible error.
func assertSpan(span prompttype.Span, sourceLen int, what string) {
	if span.Start < 0 || span.End < span.Start || span.End > sourceLen {
		panic(fmt.Sprintf("promptspan: out-of-range %s span %v (source length %d)", what, span, sourceLen))
	}
}

// assertContains panics unless outer contains inner — used both for a
// literal's outer/inner containment and for a variable's outer/inner
// containment.
func assertContains(outer, inner prompttype.Span, what string) {
	if !outer.Contains(inner) {
		panic(fmt.Sprintf("promptspan: %s span %v is not contained in %v", what, inner, outer))
	}
}

// StripDelimiters builds a SpanShape by removing a fixed number of bytes
// from each end of outer. It is the shared core of every quote-stripping
// shape (single/double quoted, triple quoted, Go raw/interpreted, Java
// text blocks, template literals, C# interpolated).
func StripDelimiters(source []byte, outerStart, outerEnd, leadDelims, trailDelims int) prompttype.SpanShape {
	outer := Of(outerStart, outerEnd)
	assertSpan(outer, len(source), "outer")

	inner := Of(outerStart+leadDelims, outerEnd-trailDelims)
	assertSpan(inner, len(source), "inner")
	assertContains(outer, inner, "inner")

	return prompttype.SpanShape{Outer: outer, Inner: inner}
}

// NewVar builds a PromptVar from outer/inner interpolation delimiter
// offsets, asserting inner falls within outer and both fall within the
// source buffer.
func NewVar(source []byte, outerStart, outerEnd, innerStart, innerEnd int) prompttype.PromptVar {
	outer := Of(outerStart, outerEnd)
	inner := Of(innerStart, innerEnd)
	assertSpan(outer, len(source), "var outer")
	assertSpan(inner, len(source), "var inner")
	assertContains(outer, inner, "var inner")
	return prompttype.PromptVar{Span: prompttype.SpanShape{Outer: outer, Inner: inner}}
}

// Enclosure builds the enclosure Span for a statement, covering from the
// earliest adjacent leading-comment byte (or the statement start, if none)
// through the statement's terminal byte.
func Enclosure(source []byte, leadingStart, stmtStart, stmtEnd int) prompttype.Span {
	start := stmtStart
	if leadingStart >= 0 && leadingStart < stmtStart {
		start = leadingStart
	}
	enc := Of(start, stmtEnd)
	assertSpan(enc, len(source), "enclosure")
	return enc
}

// AssertVarOrdering panics if vars are not strictly ordered by ascending
// Outer.Start and non-overlapping. The extraction driver calls this once
// per literal after the adapter has built the var list (and
// BuildInterleavedContent checks its input with it), rather than
// scattering checks through every interpolation extractor.
func AssertVarOrdering(vars []prompttype.PromptVar) {
	for i := 1; i < len(vars); i++ {
		prev, cur := vars[i-1].Span.Outer, vars[i].Span.Outer
		if cur.Start < prev.End {
			panic(fmt.Sprintf("promptspan: vars out of order or overlapping: %v then %v", prev, cur))
		}
	}
}

// BuildContent assembles the content token sequence for a literal with no
// variables: a single Str token spanning the whole inner range.
func BuildContent(inner prompttype.Span) []prompttype.PromptContentToken {
	return []prompttype.PromptContentToken{
		{Kind: prompttype.ContentStr, Span: inner},
	}
}

// BuildInterleavedContent assembles Str/Var tokens tiling exactly
// literalInner with no gaps or overlaps, given vars already ordered and
// non-overlapping. Each var's Outer span is treated as the slot boundary:
// Str tokens fill the gaps.
func BuildInterleavedContent(literalInner prompttype.Span, vars []prompttype.PromptVar) []prompttype.PromptContentToken {
	if len(vars) == 0 {
		return BuildContent(literalInner)
	}
	AssertVarOrdering(vars)

	var tokens []prompttype.PromptContentToken
	cursor := literalInner.Start
	for i, v := range vars {
		outer := v.Span.Outer
		if outer.Start > cursor {
			tokens = append(tokens, prompttype.PromptContentToken{
				Kind: prompttype.ContentStr,
				Span: Of(cursor, outer.Start),
			})
		}
		tokens = append(tokens, prompttype.PromptContentToken{
			Kind:  prompttype.ContentVar,
			Span:  outer,
			Index: i,
		})
		cursor = outer.End
	}
	if cursor < literalInner.End {
		tokens = append(tokens, prompttype.PromptContentToken{
			Kind: prompttype.ContentStr,
			Span: Of(cursor, literalInner.End),
		})
	}
	return tokens
}
