package adapter

import (
	"testing"

	"github.com/sourceprompt/promptscan/internal/lang"
)

func TestRubySpanShapePlainString(t *testing.T) {
	a := rubyAdapter{}
	source := []byte(`x = "hello"`)
	n := findNode(t, lang.Ruby, source, "string")
	shape := a.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestRubySpanShapePercentLiteral(t *testing.T) {
	a := rubyAdapter{}
	source := []byte(`x = %q(hello)`)
	n := findNode(t, lang.Ruby, source, "string")
	shape := a.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestRubyInterpolation(t *testing.T) {
	a := rubyAdapter{}
	source := []byte(`x = "hi #{name}"`)
	n := findNode(t, lang.Ruby, source, "string")
	shape := a.SpanShape(n, source)
	vars := a.Interpolations(n, source, shape.Inner)
	if len(vars) != 1 {
		t.Fatalf("got %d vars, want 1", len(vars))
	}
	if text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End) != "name" {
		t.Errorf("var inner = %q", text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End))
	}
}

func TestRubyHeredocShape(t *testing.T) {
	a := rubyAdapter{}
	source := []byte("x = <<~TEXT\n  hello #{name}\nTEXT\n")
	n := findNode(t, lang.Ruby, source, "heredoc_beginning")
	shape := a.SpanShape(n, source)

	// Inner covers the body lines between the opener's terminating newline
	// and the closing label line, including the body's own final newline —
	// it is not trimmed off.
	if got := text(source, shape.Inner.Start, shape.Inner.End); got != "  hello #{name}\n" {
		t.Errorf("inner = %q, want %q", got, "  hello #{name}\n")
	}

	// Outer runs from the opener through body-end (the start of the
	// closing label line); the "TEXT" label itself is excluded from outer.
	if got := text(source, shape.Outer.Start, shape.Outer.End); got != "<<~TEXT\n  hello #{name}\n" {
		t.Errorf("outer = %q, want %q", got, "<<~TEXT\n  hello #{name}\n")
	}

	vars := a.Interpolations(n, source, shape.Inner)
	if len(vars) != 1 {
		t.Fatalf("got %d vars, want 1", len(vars))
	}
	if text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End) != "name" {
		t.Errorf("var inner = %q", text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End))
	}
}

func TestRubyTryConcatPlusOperator(t *testing.T) {
	a := rubyAdapter{}
	source := []byte(`x = "hello " + name + "!"`)
	n := findNode(t, lang.Ruby, source, "binary")
	res, ok := a.TryConcat(n, source)
	if !ok {
		t.Fatal("expected '+'-concatenation chain to be recognized")
	}
	if len(res.Parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(res.Parts))
	}
}

func TestRubyNoFormatSupport(t *testing.T) {
	a := rubyAdapter{}
	source := []byte(`x = "hello " + name`)
	n := findNode(t, lang.Ruby, source, "binary")
	if _, ok := a.TryFormat(n, source); ok {
		t.Error("ruby adapter should not recognize format calls")
	}
}
