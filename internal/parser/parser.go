// Package parser wraps tree-sitter parsing for the seven host-language
// grammars this engine supports. Parsers are pooled per language via
// sync.Pool to avoid per-file allocation under parallel extraction.
package parser

import (
	"errors"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/sourceprompt/promptscan/internal/lang"
)

// ErrUnsupportedLanguage is wrapped into the error returned for any
// lang.Language with no registered grammar factory below.
var ErrUnsupportedLanguage = errors.New("parser: unsupported language")

// grammarFactories builds a *tree_sitter.Language on demand for each host
// language this engine has an adapter for. Keeping this keyed by
// lang.Language and driven through lang.AllLanguages() below (rather than
// a second, independently-maintained literal list of languages) means a
// language can't be registered in internal/lang without also wiring its
// grammar here, and vice versa.
var grammarFactories = map[lang.Language]func() *tree_sitter.Language{
	lang.Python:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_python.Language()) },
	lang.JavaScript: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_javascript.Language()) },
	lang.TypeScript: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
	lang.TSX:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()) },
	lang.Go:         func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_go.Language()) },
	lang.Java:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_java.Language()) },
	lang.CSharp:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_c_sharp.Language()) },
	lang.PHP:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly()) },
	lang.Ruby:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_ruby.Language()) },
}

var (
	languagesOnce sync.Once
	languages     map[lang.Language]*tree_sitter.Language
	parserPools   map[lang.Language]*sync.Pool
)

func initLanguages() {
	languagesOnce.Do(func() {
		all := lang.AllLanguages()
		languages = make(map[lang.Language]*tree_sitter.Language, len(all))
		for _, l := range all {
			factory, ok := grammarFactories[l]
			if !ok {
				continue
			}
			languages[l] = factory()
		}

		parserPools = make(map[lang.Language]*sync.Pool, len(languages))
		for l, tsLang := range languages {
			l, tsLang := l, tsLang
			parserPools[l] = &sync.Pool{
				New: func() any {
					p := tree_sitter.NewParser()
					if err := p.SetLanguage(tsLang); err != nil {
						panic(fmt.Sprintf("parser: set language %s: %v", l, err))
					}
					return p
				},
			}
		}
	})
}

// GetLanguage returns the tree-sitter Language for a lang.Language.
func GetLanguage(l lang.Language) (*tree_sitter.Language, error) {
	initLanguages()
	tsLang, ok := languages[l]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, l)
	}
	return tsLang, nil
}

// Parse parses source code into a tree-sitter AST Tree.
// The caller must call tree.Close() when done.
// Parsers are pooled per language via sync.Pool to avoid per-file allocation.
func Parse(l lang.Language, source []byte) (*tree_sitter.Tree, error) {
	initLanguages()

	pool, ok := parserPools[l]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, l)
	}

	p, _ := pool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("parser: failed to get parser for language %s", l)
	}
	tree := p.Parse(source, nil)
	pool.Put(p)

	if tree == nil {
		return nil, fmt.Errorf("parser: parse failed for language %s", l)
	}

	return tree, nil
}

// ParseChecked parses source and immediately checks the result for a
// structural parse error, folding Parse and FindFirstError into the single
// call every extraction site actually needs — this engine never attempts
// partial extraction on a malformed file, so a caller that parsed without
// also checking would be a bug. On a parse error the tree is closed before
// returning, so callers only need their own defer tree.Close() on the
// success path.
func ParseChecked(l lang.Language, source []byte) (tree *tree_sitter.Tree, parseErr *ParseError, err error) {
	tree, err = Parse(l, source)
	if err != nil {
		return nil, nil, err
	}
	if perr := FindFirstError(l, tree.RootNode(), source); perr != nil {
		tree.Close()
		return nil, perr, nil
	}
	return tree, nil, nil
}

// WalkFunc is called for each node during AST traversal.
// Return false to skip children.
type WalkFunc func(node *tree_sitter.Node) bool

// Walk traverses the AST in depth-first order.
func Walk(node *tree_sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText returns the text content of a node. A node whose byte range
// falls outside source is a programmer error — a tree built against a
// different buffer than the one passed here — so this panics with an
// explicit message instead of letting a slice expression panic generically,
// matching internal/promptspan's assert-then-panic convention for
// invariant violations that should never reach a caller.
func NodeText(node *tree_sitter.Node, source []byte) string {
	start, end := int(node.StartByte()), int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		panic(fmt.Sprintf("parser: out-of-range node span [%d:%d] (source length %d)", start, end, len(source)))
	}
	return string(source[start:end])
}

// ParseError describes a syntactically invalid source, with a human-readable
// line:column reference to the first error/missing node.
type ParseError struct {
	Language lang.Language
	Line     int // 1-based
	Column   int // 1-based
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Language, e.Line, e.Column, e.Message)
}

// FindFirstError walks the tree looking for an ERROR or MISSING node. It
// returns nil if the tree is structurally valid. The engine never attempts
// partial extraction on a parse error.
func FindFirstError(l lang.Language, root *tree_sitter.Node, source []byte) *ParseError {
	if root == nil {
		return &ParseError{Language: l, Line: 1, Column: 1, Message: "empty parse tree"}
	}
	if !root.HasError() {
		return nil
	}

	var found *tree_sitter.Node
	Walk(root, func(n *tree_sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		// HasError() was true but no single node reports it directly
		// (can happen with certain missing-token recoveries) — fall back
		// to the root's own position.
		found = root
	}

	pos := found.StartPosition()
	kind := "syntax error"
	if found.IsMissing() {
		kind = fmt.Sprintf("missing %s", found.Kind())
	} else if found.IsError() {
		kind = fmt.Sprintf("unexpected token near %q", truncate(NodeText(found, source), 40))
	}

	return &ParseError{
		Language: l,
		Line:     int(pos.Row) + 1,
		Column:   int(pos.Column) + 1,
		Message:  kind,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// commentKinds maps each host language to the tree-sitter node kinds that
// represent comment tokens. Java's grammar distinguishes line/block comments;
// the rest use a single "comment" kind.
var commentKinds = map[lang.Language]map[string]bool{
	lang.Python:     {"comment": true},
	lang.JavaScript: {"comment": true},
	lang.TypeScript: {"comment": true},
	lang.TSX:        {"comment": true},
	lang.Go:         {"comment": true},
	lang.Java:       {"line_comment": true, "block_comment": true},
	lang.CSharp:     {"comment": true},
	lang.PHP:        {"comment": true},
	lang.Ruby:       {"comment": true},
}

// CommentToken is one comment node's byte range and raw source text,
// consumed downstream by the comment index.
type CommentToken struct {
	Start int
	End   int
	Text  string
}

// CollectComments walks the tree and returns every comment token, sorted by
// start offset (it already is, since Walk is depth-first/left-to-right, but
// callers should not rely on traversal order beyond "ascending start").
func CollectComments(l lang.Language, root *tree_sitter.Node, source []byte) []CommentToken {
	kinds := commentKinds[l]
	var tokens []CommentToken
	Walk(root, func(n *tree_sitter.Node) bool {
		if kinds[n.Kind()] {
			tokens = append(tokens, CommentToken{
				Start: int(n.StartByte()),
				End:   int(n.EndByte()),
				Text:  NodeText(n, source),
			})
		}
		return true
	})
	return tokens
}
