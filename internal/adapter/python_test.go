package adapter

import (
	"testing"

	"github.com/sourceprompt/promptscan/internal/lang"
)

func TestPythonSpanShapePlainString(t *testing.T) {
	source := []byte(`x = "hello"`)
	n := findNode(t, lang.Python, source, "string")
	shape := pythonAdapter{}.SpanShape(n, source)
	if text(source, shape.Outer.Start, shape.Outer.End) != `"hello"` {
		t.Errorf("outer = %q", text(source, shape.Outer.Start, shape.Outer.End))
	}
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestPythonSpanShapeTripleQuoted(t *testing.T) {
	source := []byte(`x = """hello\nworld"""`)
	n := findNode(t, lang.Python, source, "string")
	shape := pythonAdapter{}.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != `hello\nworld` {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestPythonSpanShapeFStringPrefix(t *testing.T) {
	source := []byte(`x = f"hi {name}"`)
	n := findNode(t, lang.Python, source, "string")
	shape := pythonAdapter{}.SpanShape(n, source)
	if text(source, shape.Outer.Start, shape.Outer.End) != `f"hi {name}"` {
		t.Errorf("outer = %q", text(source, shape.Outer.Start, shape.Outer.End))
	}
	if text(source, shape.Inner.Start, shape.Inner.End) != `hi {name}` {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestPythonInterpolationsOnlyForFStrings(t *testing.T) {
	a := pythonAdapter{}

	source := []byte(`x = f"hi {name}"`)
	n := findNode(t, lang.Python, source, "string")
	shape := a.SpanShape(n, source)
	vars := a.Interpolations(n, source, shape.Inner)
	if len(vars) != 1 {
		t.Fatalf("got %d vars, want 1", len(vars))
	}
	if text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End) != "name" {
		t.Errorf("var inner = %q", text(source, vars[0].Span.Inner.Start, vars[0].Span.Inner.End))
	}

	plain := []byte(`x = "hi {name}"`)
	pn := findNode(t, lang.Python, plain, "string")
	pshape := a.SpanShape(pn, plain)
	if got := a.Interpolations(pn, plain, pshape.Inner); got != nil {
		t.Errorf("plain string should not be scanned for interpolations, got %v", got)
	}
}

func TestPythonNoConcatSupport(t *testing.T) {
	a := pythonAdapter{}
	source := []byte(`x = "a" + "b"`)
	n := findNode(t, lang.Python, source, "binary_operator")
	if _, ok := a.TryConcat(n, source); ok {
		t.Error("python adapter should not recognize concatenation chains")
	}
}
