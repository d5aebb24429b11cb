// Package prompttype holds the wire-adjacent value types shared by every
// stage of the extraction engine: Span, SpanShape, PromptVar,
// PromptAnnotation, PromptContentToken and the Prompt record itself.
// Every type here is immutable once built — callers hand off values, never
// pointers into mutable scratch state.
package prompttype

import "fmt"

// Span is a zero-based, half-open byte range into a source buffer:
// start <= end <= len(source).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Disjoint reports whether s and other share no bytes.
func (s Span) Disjoint(other Span) bool {
	return s.End <= other.Start || other.End <= s.Start
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// SpanShape pairs a literal's full textual extent (Outer, including
// delimiters and prefix sigils) with its stripped content (Inner).
// Outer must always contain Inner.
type SpanShape struct {
	Outer Span `json:"outer"`
	Inner Span `json:"inner"`
}

// PromptVar is one interpolation site inside a prompt literal's content.
// Span.Outer includes the interpolation delimiters (${...}, {...}, #{...},
// {$...}); Span.Inner is the bare expression.
type PromptVar struct {
	Span SpanShape `json:"span"`
}

// PromptAnnotation is a Span plus the raw source text of one or more
// adjacent comment lines merged into a single block. It is valid iff its
// Text contains an `@prompt` marker — validity is a property of the
// resolver, not stored on the value itself.
type PromptAnnotation struct {
	Span Span   `json:"span"`
	Text string `json:"text"`
}

// ContentKind tags a PromptContentToken as literal text or a variable slot.
type ContentKind string

const (
	ContentStr ContentKind = "str"
	ContentVar ContentKind = "var"
)

// PromptContentToken is one chunk of a prompt's synthesized content
// sequence: either a literal text span (Str) or a variable slot (Var),
// the latter carrying the zero-based Index into the Prompt's Vars list.
type PromptContentToken struct {
	Kind  ContentKind `json:"kind"`
	Span  Span        `json:"span"`
	Index int         `json:"index"`
}

// Prompt is the emitted record: a single string literal (or atomic
// concatenation/format chain) recognized as an LLM prompt.
type Prompt struct {
	File        string               `json:"file"`
	Span        SpanShape            `json:"span"`
	Enclosure   Span                 `json:"enclosure"`
	Vars        []PromptVar          `json:"vars"`
	Annotations []PromptAnnotation   `json:"annotations"`
	Content     []PromptContentToken `json:"content,omitempty"`
}

// Result is the success/error record returned by a single-file extraction.
type Result struct {
	State   string   `json:"state"`
	Prompts []Prompt `json:"prompts,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Success builds a `{state: "success", prompts: [...]}` record.
func Success(prompts []Prompt) *Result {
	if prompts == nil {
		prompts = []Prompt{}
	}
	return &Result{State: "success", Prompts: prompts}
}

// Err builds a `{state: "error", error: "..."}` record.
func Err(msg string) *Result {
	return &Result{State: "error", Error: msg}
}
