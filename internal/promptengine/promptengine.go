// Package promptengine implements the extraction driver: the top-down
// syntax-tree walker that ties the comment index, annotation resolver,
// scope tracker, and span engine together into one exported entry point
// per file, plus a batch fan-out for many files.
package promptengine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourceprompt/promptscan/internal/adapter"
	"github.com/sourceprompt/promptscan/internal/discover"
	"github.com/sourceprompt/promptscan/internal/parser"
	"github.com/sourceprompt/promptscan/internal/promptcache"
	"github.com/sourceprompt/promptscan/internal/promptannotation"
	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/promptscope"
	"github.com/sourceprompt/promptscan/internal/promptspan"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

// Extract walks a single source buffer and returns its extraction result.
// A syntactically invalid source produces an error Result; the returned
// Go error is reserved for context cancellation.
func Extract(ctx context.Context, a adapter.Adapter, filename string, source []byte) (*prompttype.Result, error) {
	return ExtractWithMarkers(ctx, a, filename, source, nil)
}

// ExtractWithMarkers behaves like Extract but additionally recognizes any
// of extraMarkers (beyond `@prompt`) as a valid annotation marker, for
// internal/ptconfig's disabled-by-default marker override. A nil/empty
// extraMarkers reproduces Extract's behavior exactly.
func ExtractWithMarkers(ctx context.Context, a adapter.Adapter, filename string, source []byte, extraMarkers []string) (*prompttype.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, perr, err := parser.ParseChecked(a.Language(), source)
	if err != nil {
		return prompttype.Err(err.Error()), nil
	}
	if perr != nil {
		return prompttype.Err(perr.Error()), nil
	}
	defer tree.Close()

	root := tree.RootNode()
	tokens := parser.CollectComments(a.Language(), root, source)
	commentTokens := make([]promptcomment.Token, len(tokens))
	for i, t := range tokens {
		commentTokens[i] = promptcomment.Token{Start: t.Start, End: t.End, Text: t.Text}
	}
	idx := promptcomment.New(source, commentTokens, a.AdjacencyMode(), promptannotation.WithExtraMarkers(extraMarkers))

	d := &driver{
		adapter:  a,
		source:   source,
		filename: filename,
		idx:      idx,
		scope:    promptscope.New(),
	}
	d.walk(root)

	sort.SliceStable(d.prompts, func(i, j int) bool {
		oi, oj := d.prompts[i].Span.Outer, d.prompts[j].Span.Outer
		if oi.Start != oj.Start {
			return oi.Start < oj.Start
		}
		return oi.End < oj.End
	})

	slog.Debug("extract.file", "path", filename, "prompts", len(d.prompts))
	return prompttype.Success(d.prompts), nil
}

// BatchResult pairs a discovered file with its extraction outcome.
type BatchResult struct {
	File   discover.FileInfo
	Result *prompttype.Result
	Err    error
}

// BatchOptions configures ExtractBatch. The zero value runs every file
// uncached with the stock `@prompt` marker grammar.
type BatchOptions struct {
	// Cache, when non-nil, is consulted on (file path, content hash) before
	// parsing and updated after a successful extraction.
	Cache *promptcache.Cache
	// ExtraMarkers extends the annotation grammar beyond `@prompt`,
	// disabled by default (nil/empty).
	ExtraMarkers []string
}

// ExtractBatch runs Extract over every discovered file, fanned out across
// at most runtime.NumCPU() workers with golang.org/x/sync/errgroup. A file
// in an unsupported language (no registered adapter) gets a BatchResult
// carrying a "no adapter registered" error and is not parsed —
// discover.Discover already filters to the seven supported extensions, so
// this only guards against a caller-supplied list. opts may be nil.
func ExtractBatch(ctx context.Context, files []discover.FileInfo, opts *BatchOptions) ([]BatchResult, error) {
	if opts == nil {
		opts = &BatchOptions{}
	}
	cache := opts.Cache
	results := make([]BatchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var hits int32

	for i, fi := range files {
		i, fi := i, fi
		g.Go(func() error {
			a := adapter.For(fi.Language)
			if a == nil {
				results[i] = BatchResult{File: fi, Err: fmt.Errorf("no adapter registered for %s", fi.Language)}
				return nil
			}
			source, err := os.ReadFile(fi.Path)
			if err != nil {
				results[i] = BatchResult{File: fi, Err: err}
				return nil
			}

			hash := promptcache.HashContent(source)
			if cache != nil {
				if cached, ok := cache.Get(fi.RelPath, hash); ok {
					results[i] = BatchResult{File: fi, Result: cached}
					atomic.AddInt32(&hits, 1)
					return nil
				}
			}

			res, err := ExtractWithMarkers(gctx, a, fi.RelPath, source, opts.ExtraMarkers)
			results[i] = BatchResult{File: fi, Result: res, Err: err}
			if err == nil && cache != nil {
				if perr := cache.Put(fi.RelPath, hash, res); perr != nil {
					slog.Warn("batch.cache.put", "path", fi.RelPath, "err", perr)
				}
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	slog.Info("batch.extract", "files", len(files), "cache_hits", hits)
	return results, nil
}

// driver walks one file's syntax tree, tracking scope state and emitting
// Prompts at declaration/assignment sites in source order.
type driver struct {
	adapter  adapter.Adapter
	source   []byte
	filename string
	idx      *promptcomment.Index
	scope    *promptscope.Tracker
	prompts  []prompttype.Prompt
}

func (d *driver) walk(n *tree_sitter.Node) {
	if n == nil {
		return
	}

	if d.adapter.IsScopeBoundary(n) {
		d.scope.EnterScope()
		d.walkChildren(n)
		d.scope.ExitScope()
		return
	}

	if d.adapter.IsDeclaration(n) {
		d.processDeclaration(n)
		return
	}

	d.walkChildren(n)
}

func (d *driver) walkChildren(n *tree_sitter.Node) {
	for i := uint(0); i < n.ChildCount(); i++ {
		d.walk(n.Child(i))
	}
}

// processDeclaration handles one declaration/assignment node: it resolves
// annotations once for the enclosing statement, then evaluates promotion
// and emission per declarator, finally recursing into each declarator's
// value subtree for nested scope boundaries.
func (d *driver) processDeclaration(n *tree_sitter.Node) {
	decls := d.adapter.DeclarationsIn(n)

	stmt := enclosingStatement(n)
	stmtStart, stmtEnd := int(stmt.StartByte()), int(stmt.EndByte())

	resolved := promptannotation.Resolve(d.idx, stmtStart, stmtEnd, d.adapter.TypeScriptRefinement())
	leadingStart := d.idx.AnyLeadingStart(stmtStart)

	for _, decl := range decls {
		if decl.Name == nil {
			continue
		}
		name := nodeText(decl.Name, d.source)

		promoted := containsPromptCI(name) || resolved.HasPromptMarker || d.scope.IsPromptIdent(name)
		if !promoted {
			if decl.Value != nil {
				d.walk(decl.Value)
			}
			continue
		}

		d.scope.MarkPromptIdent(name)

		annotations := resolved.Annotations
		if resolved.HasPromptMarker {
			d.scope.StoreDefAnnotation(name, annotations)
		} else if defAnns, ok := d.scope.GetDefAnnotation(name); ok {
			annotations = promptannotation.ResolveReassignment(defAnns).Annotations
		}

		if decl.Value != nil {
			d.emit(decl.Value, stmtStart, stmtEnd, leadingStart, annotations)
			d.walk(decl.Value)
		}
	}
}

// emit attempts the three recognized initializer shapes in turn: a bare
// string-like literal, a format-style call, or a concatenation chain. An
// unrecognized shape is silently skipped — the identifier stays
// scope-marked regardless.
func (d *driver) emit(value *tree_sitter.Node, stmtStart, stmtEnd, leadingStart int, annotations []prompttype.PromptAnnotation) {
	if d.adapter.IsStringLike(value) {
		d.emitLiteral(value, stmtStart, stmtEnd, leadingStart, annotations)
		return
	}
	if res, ok := d.adapter.TryFormat(value, d.source); ok {
		d.emitConcat(res, stmtStart, stmtEnd, leadingStart, annotations)
		return
	}
	if res, ok := d.adapter.TryConcat(value, d.source); ok {
		d.emitConcat(res, stmtStart, stmtEnd, leadingStart, annotations)
		return
	}
}

func (d *driver) emitLiteral(value *tree_sitter.Node, stmtStart, stmtEnd, leadingStart int, annotations []prompttype.PromptAnnotation) {
	shape := d.adapter.SpanShape(value, d.source)
	vars := d.adapter.Interpolations(value, d.source, shape.Inner)
	promptspan.AssertVarOrdering(vars)

	d.prompts = append(d.prompts, prompttype.Prompt{
		File:        d.filename,
		Span:        shape,
		Enclosure:   promptspan.Enclosure(d.source, leadingStart, stmtStart, stmtEnd),
		Vars:        orEmptyVars(vars),
		Annotations: orEmptyAnnotations(annotations),
		Content:     promptspan.BuildInterleavedContent(shape.Inner, vars),
	})
}

func (d *driver) emitConcat(res adapter.ConcatResult, stmtStart, stmtEnd, leadingStart int, annotations []prompttype.PromptAnnotation) {
	if len(res.Parts) == 0 {
		return
	}

	outer := spanOf(res.Whole)

	var firstLiteral, lastLiteral *tree_sitter.Node
	for _, p := range res.Parts {
		if !p.Literal {
			continue
		}
		if firstLiteral == nil {
			firstLiteral = p.Node
		}
		lastLiteral = p.Node
	}

	var inner prompttype.Span
	switch {
	case firstLiteral != nil:
		inner = prompttype.Span{
			Start: d.adapter.SpanShape(firstLiteral, d.source).Inner.Start,
			End:   d.adapter.SpanShape(lastLiteral, d.source).Inner.End,
		}
	default:
		inner = outer
	}

	var vars []prompttype.PromptVar
	for _, p := range res.Parts {
		if p.Literal {
			continue
		}
		start, end := int(p.Node.StartByte()), int(p.Node.EndByte())
		vars = append(vars, prompttype.PromptVar{
			Span: prompttype.SpanShape{
				Outer: prompttype.Span{Start: start, End: end},
				Inner: prompttype.Span{Start: start, End: end},
			},
		})
	}

	content := res.Content
	if content == nil {
		content = contentFromParts(d, res.Parts, vars)
	}

	d.prompts = append(d.prompts, prompttype.Prompt{
		File:        d.filename,
		Span:        prompttype.SpanShape{Outer: outer, Inner: inner},
		Enclosure:   promptspan.Enclosure(d.source, leadingStart, stmtStart, stmtEnd),
		Vars:        orEmptyVars(vars),
		Annotations: orEmptyAnnotations(annotations),
		Content:     content,
	})
}

// contentFromParts derives a Str/Var content sequence generically from a
// concatenation chain's parts when the adapter didn't pre-build one: each
// literal part's inner span becomes a Str token, each non-literal part
// becomes a Var token at its position among vars.
func contentFromParts(d *driver, parts []adapter.ConcatPart, vars []prompttype.PromptVar) []prompttype.PromptContentToken {
	var tokens []prompttype.PromptContentToken
	varIdx := 0
	for _, p := range parts {
		if p.Literal {
			shape := d.adapter.SpanShape(p.Node, d.source)
			tokens = append(tokens, prompttype.PromptContentToken{
				Kind: prompttype.ContentStr,
				Span: shape.Inner,
			})
			continue
		}
		tokens = append(tokens, prompttype.PromptContentToken{
			Kind:  prompttype.ContentVar,
			Span:  vars[varIdx].Span.Outer,
			Index: varIdx,
		})
		varIdx++
	}
	return tokens
}

func containsPromptCI(name string) bool {
	return strings.Contains(strings.ToLower(name), "prompt")
}

func nodeText(n *tree_sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

func spanOf(n *tree_sitter.Node) prompttype.Span {
	return prompttype.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func orEmptyVars(vars []prompttype.PromptVar) []prompttype.PromptVar {
	if vars == nil {
		return []prompttype.PromptVar{}
	}
	return vars
}

func orEmptyAnnotations(annotations []prompttype.PromptAnnotation) []prompttype.PromptAnnotation {
	if annotations == nil {
		return []prompttype.PromptAnnotation{}
	}
	return annotations
}

// enclosingStatement climbs from a declaration node to the nearest ancestor
// that represents its full statement (e.g. Python/PHP/Java/C#'s
// expression_statement wrapper), so the enclosure and annotation lookup
// cover the whole statement including trailing punctuation. Stops climbing
// once the parent no longer starts at the same byte, since at that point n
// is no longer the wrapper's sole leading content.
func enclosingStatement(n *tree_sitter.Node) *tree_sitter.Node {
	cur := n
	for {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		if p.StartByte() != cur.StartByte() {
			return cur
		}
		if !strings.Contains(p.Kind(), "statement") && !strings.Contains(p.Kind(), "declaration") {
			return cur
		}
		cur = p
	}
}
