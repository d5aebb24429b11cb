// Package promptannotation implements the @prompt marker grammar and the
// resolver that turns a statement's comment tokens into its final
// effective annotation list.
package promptannotation

import (
	"strings"

	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

const marker = "@prompt"

// ValidMarker reports whether a comment's text contains a valid @prompt
// marker: after stripping the comment prefix, the token `@prompt` must
// be followed by end-of-text, whitespace, a newline, or the closing `*/`
// of a block comment.
// `@prompting`, `@prompts`, and `wrong@prompt` are not matches; the latter
// is excluded because a marker must not be glued to a preceding word
// either, matching the grammar's intent that @prompt be a standalone token.
func ValidMarker(text string) bool {
	return hasToken(text, marker)
}

// WithExtraMarkers builds a marker predicate recognizing `@prompt` plus any
// additional literal tokens (e.g. `@llm-prompt`), for internal/ptconfig's
// disabled-by-default marker override. An empty/nil extra list behaves
// exactly like ValidMarker.
func WithExtraMarkers(extra []string) func(string) bool {
	if len(extra) == 0 {
		return ValidMarker
	}
	tokens := append([]string{marker}, extra...)
	return func(text string) bool {
		for _, tok := range tokens {
			if hasToken(text, tok) {
				return true
			}
		}
		return false
	}
}

func hasToken(text, token string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], token)
		if pos < 0 {
			return false
		}
		pos += idx
		if precededByWordChar(text, pos) {
			idx = pos + 1
			continue
		}
		after := pos + len(token)
		if after == len(text) || isBoundary(text[after]) || strings.HasPrefix(text[after:], "*/") {
			return true
		}
		idx = pos + 1
	}
}

func precededByWordChar(text string, pos int) bool {
	if pos == 0 {
		return false
	}
	c := text[pos-1]
	return isWordChar(c)
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// isBoundary reports whether c may legally follow the @prompt token: the
// suffix is free-form, but it must be separated by whitespace, never glued
// directly onto another character (@prompting, @prompts, @prompt:).
func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// Resolved is the resolver's output for one statement: the final ordered
// annotation list plus whether the statement carries a valid marker
// anywhere in that list.
type Resolved struct {
	Annotations     []prompttype.PromptAnnotation
	HasPromptMarker bool
}

// Resolve takes a statement's byte range and the file's comment index and
// produces the final annotation list and the has_prompt_marker flag.
// typeScriptRefinement enables the rule where an inline @prompt pulls in
// the leading block even without its own marker.
func Resolve(idx *promptcomment.Index, stmtStart, stmtEnd int, typeScriptRefinement bool) Resolved {
	leading, leadingHasMarker := idx.AdjacentLeadingBlock(stmtStart)
	inline := idx.InlineMarkers(stmtStart, stmtEnd)

	hasMarker := leadingHasMarker || len(inline) > 0

	var annotations []prompttype.PromptAnnotation
	if leadingHasMarker {
		annotations = append(annotations, leading)
	} else if typeScriptRefinement && len(inline) > 0 {
		if any, ok := idx.AnyLeadingAnnotation(stmtStart); ok {
			annotations = append(annotations, any)
		}
	}
	annotations = append(annotations, inline...)

	return Resolved{Annotations: annotations, HasPromptMarker: hasMarker}
}

// ResolveReassignment implements the reassignment rule: on a reassignment
// of an already-annotated identifier with no new marker, the final
// annotations are the definition-time annotations recorded by the scope
// tracker, not whatever the reassigning statement itself carries.
func ResolveReassignment(defAnnotations []prompttype.PromptAnnotation) Resolved {
	hasMarker := false
	for _, a := range defAnnotations {
		if ValidMarker(a.Text) {
			hasMarker = true
			break
		}
	}
	return Resolved{Annotations: defAnnotations, HasPromptMarker: hasMarker}
}
