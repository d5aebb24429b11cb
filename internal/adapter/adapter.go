// Package adapter defines the per-host-language contract: one file per
// host language, each supplying node-kind classifiers, field lookups, a
// quote-shape descriptor, and an interpolation extractor to the
// extraction driver in internal/promptengine.
package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/lang"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

// Declarator is one name/value pair introduced by a declaration node.
type Declarator struct {
	Name  *tree_sitter.Node
	Value *tree_sitter.Node // nil if the declarator has no initializer
}

// ConcatPart is one segment of a concatenation or format-call chain: a
// string-like literal segment, or a non-literal expression segment that
// becomes a PromptVar.
type ConcatPart struct {
	Node    *tree_sitter.Node
	Literal bool // true if Node is a string-like literal segment
}

// ConcatResult is what TryConcat/TryFormat return: the parts making up an
// atomic concatenation/format-call shape, in source order, plus the whole
// expression's node (for the outer span).
//
// Content is optional and pre-built by the adapter when the content
// sequence can't be derived generically from Parts — e.g. C#'s
// String.Format, where vars reference argument expressions but content
// tiles the format literal's placeholder positions. When nil, the engine
// derives content from Parts itself (the concatenation-chain case).
type ConcatResult struct {
	Whole   *tree_sitter.Node
	Parts   []ConcatPart
	Content []prompttype.PromptContentToken
}

// Adapter is the per-host-language contract the extraction driver
// consumes. Every method operates on tree-sitter nodes and the raw source
// buffer; adapters never interpret expressions, only classify and slice.
type Adapter interface {
	Language() lang.Language

	// IsStringLike recognizes the host's literal kinds.
	IsStringLike(n *tree_sitter.Node) bool

	// IsScopeBoundary reports whether n introduces a new lexical scope.
	IsScopeBoundary(n *tree_sitter.Node) bool

	// IsDeclaration reports whether n is a declaration or assignment
	// statement the driver should inspect for promotable identifiers. This
	// covers both keyword-introduced declarations (var/let/const) and
	// plain assignment expressions in languages without one (Python, PHP,
	// Ruby) — the driver distinguishes "fresh" from "reassignment"
	// dynamically via Scope Tracker state, not via node kind.
	IsDeclaration(n *tree_sitter.Node) bool

	// DeclarationsIn yields one declarator per name introduced by a
	// declaration/assignment node. It expands chained assignments
	// (`a = b = "hi"`) into one declarator per target sharing the final
	// value node, and destructuring/multi-declarator forms
	// (`a, b = x, y`) into one declarator per positionally-paired name.
	DeclarationsIn(n *tree_sitter.Node) []Declarator

	// SpanShape computes the outer/inner SpanShape for a string-like node.
	SpanShape(n *tree_sitter.Node, source []byte) prompttype.SpanShape

	// Interpolations extracts interpolation vars from a string-like node,
	// given its already-computed inner span. Returns nil for
	// non-interpolating shapes.
	Interpolations(n *tree_sitter.Node, source []byte, inner prompttype.Span) []prompttype.PromptVar

	// TryConcat attempts to recognize n as a `+`-joined concatenation
	// chain. Returns ok=false if the adapter doesn't support
	// concatenation or n isn't one.
	TryConcat(n *tree_sitter.Node, source []byte) (ConcatResult, bool)

	// TryFormat attempts to recognize n as a format-style call (e.g. C#
	// String.Format). Returns ok=false if unsupported or n isn't one.
	TryFormat(n *tree_sitter.Node, source []byte) (ConcatResult, bool)

	// AdjacencyMode selects the comment index's blank-line tolerance for
	// this language.
	AdjacencyMode() promptcomment.AdjacencyMode

	// TypeScriptRefinement reports whether the annotation resolver's
	// carry-leading-context-without-marker rule applies.
	TypeScriptRefinement() bool
}

var registry = map[lang.Language]Adapter{}

// Register installs an adapter for a. Called from each language file's
// init().
func Register(a Adapter) {
	registry[a.Language()] = a
}

// For returns the registered adapter for l, or nil if none.
func For(l lang.Language) Adapter {
	return registry[l]
}
