package adapter

import (
	"testing"

	"github.com/sourceprompt/promptscan/internal/lang"
)

func TestGoSpanShapeInterpretedString(t *testing.T) {
	a := goAdapter{}
	source := []byte(`var x = "hello"`)
	n := findNode(t, lang.Go, source, "interpreted_string_literal")
	shape := a.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestGoSpanShapeRawString(t *testing.T) {
	a := goAdapter{}
	source := []byte("var x = `hello\nworld`")
	n := findNode(t, lang.Go, source, "raw_string_literal")
	shape := a.SpanShape(n, source)
	if text(source, shape.Inner.Start, shape.Inner.End) != "hello\nworld" {
		t.Errorf("inner = %q", text(source, shape.Inner.Start, shape.Inner.End))
	}
}

func TestGoNoInterpolationSupport(t *testing.T) {
	a := goAdapter{}
	source := []byte(`var x = "hello"`)
	n := findNode(t, lang.Go, source, "interpreted_string_literal")
	shape := a.SpanShape(n, source)
	if got := a.Interpolations(n, source, shape.Inner); got != nil {
		t.Errorf("go adapter has no interpolation syntax, got %v", got)
	}
}

func TestGoNoConcatOrFormatSupport(t *testing.T) {
	a := goAdapter{}
	source := []byte(`var x = "a" + "b"`)
	n := findNode(t, lang.Go, source, "binary_expression")
	if _, ok := a.TryConcat(n, source); ok {
		t.Error("go adapter should not recognize concatenation chains")
	}
	if _, ok := a.TryFormat(n, source); ok {
		t.Error("go adapter should not recognize format calls")
	}
}

func TestGoShortVarDeclaration(t *testing.T) {
	a := goAdapter{}
	source := []byte(`func f() { greeting, farewell := "hi", "bye" }`)
	n := findNode(t, lang.Go, source, "short_var_declaration")
	decls := a.DeclarationsIn(n)
	if len(decls) != 2 {
		t.Fatalf("got %d declarators, want 2", len(decls))
	}
	if text(source, decls[0].Value.StartByte(), decls[0].Value.EndByte()) != `"hi"` {
		t.Errorf("decls[0].Value = %q", text(source, decls[0].Value.StartByte(), decls[0].Value.EndByte()))
	}
	if text(source, decls[1].Value.StartByte(), decls[1].Value.EndByte()) != `"bye"` {
		t.Errorf("decls[1].Value = %q", text(source, decls[1].Value.StartByte(), decls[1].Value.EndByte()))
	}
}

func TestGoVarDeclarationSpec(t *testing.T) {
	a := goAdapter{}
	source := []byte(`var greeting = "hi"`)
	n := findNode(t, lang.Go, source, "var_declaration")
	decls := a.DeclarationsIn(n)
	if len(decls) != 1 {
		t.Fatalf("got %d declarators, want 1", len(decls))
	}
	if text(source, decls[0].Name.StartByte(), decls[0].Name.EndByte()) != "greeting" {
		t.Errorf("decls[0].Name = %q", text(source, decls[0].Name.StartByte(), decls[0].Name.EndByte()))
	}
}
