package adapter

import (
	"testing"

	"github.com/sourceprompt/promptscan/internal/lang"
)

func TestJavaSpanShapePlainString(t *testing.T) {
	a := javaAdapter{}
	source := []byte(`String x = "hello";`)
	n := findNode(t, lang.Java, source, "string_literal")
	shape := a.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestJavaSpanShapeTextBlock(t *testing.T) {
	a := javaAdapter{}
	source := []byte("String x = \"\"\"\n    hello\n    \"\"\";")
	n := findNode(t, lang.Java, source, "text_block")
	shape := a.SpanShape(n, source)
	if text(source, shape.Outer.Start, shape.Outer.End) != "\"\"\"\n    hello\n    \"\"\"" {
		t.Errorf("outer = %q", text(source, shape.Outer.Start, shape.Outer.End))
	}
}

func TestJavaNoInterpolationSupport(t *testing.T) {
	a := javaAdapter{}
	source := []byte(`String x = "hello";`)
	n := findNode(t, lang.Java, source, "string_literal")
	shape := a.SpanShape(n, source)
	if got := a.Interpolations(n, source, shape.Inner); got != nil {
		t.Errorf("java adapter has no interpolation syntax, got %v", got)
	}
}

func TestJavaTryConcat(t *testing.T) {
	a := javaAdapter{}
	source := []byte(`String x = "hello " + name + "!";`)
	n := findNode(t, lang.Java, source, "binary_expression")
	res, ok := a.TryConcat(n, source)
	if !ok {
		t.Fatal("expected concatenation chain to be recognized")
	}
	if len(res.Parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(res.Parts))
	}
	if !res.Parts[0].Literal || res.Parts[1].Literal || !res.Parts[2].Literal {
		t.Errorf("unexpected literal flags: %v %v %v", res.Parts[0].Literal, res.Parts[1].Literal, res.Parts[2].Literal)
	}
}

func TestJavaNoFormatSupport(t *testing.T) {
	a := javaAdapter{}
	source := []byte(`String x = "hello " + name;`)
	n := findNode(t, lang.Java, source, "binary_expression")
	if _, ok := a.TryFormat(n, source); ok {
		t.Error("java adapter should not recognize format calls")
	}
}

func TestJavaAssignmentExpressionDeclarator(t *testing.T) {
	a := javaAdapter{}
	source := []byte(`void f() { greeting = "hi"; }`)
	n := findNode(t, lang.Java, source, "assignment_expression")
	decls := a.DeclarationsIn(n)
	if len(decls) != 1 {
		t.Fatalf("got %d declarators, want 1", len(decls))
	}
	if text(source, decls[0].Value.StartByte(), decls[0].Value.EndByte()) != `"hi"` {
		t.Errorf("decls[0].Value = %q", text(source, decls[0].Value.StartByte(), decls[0].Value.EndByte()))
	}
}
