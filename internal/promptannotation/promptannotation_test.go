package promptannotation

import (
	"testing"

	"github.com/sourceprompt/promptscan/internal/promptcomment"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

func TestValidMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"# @prompt", true},
		{"// @prompt", true},
		{"/* @prompt */", true},
		{"# @prompt: the system message", false},
		{"# @prompt\n# more context", true},
		{"# @prompting", false},
		{"# wrong@prompt", false},
		{"# @prompts", false},
		{"# no marker here", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ValidMarker(tt.text); got != tt.want {
				t.Errorf("ValidMarker(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveLeadingMarker(t *testing.T) {
	source := []byte("# Hello\n# @prompt\n# world\nmsg = \"Hello\"\n")
	tokens := []promptcomment.Token{
		{Start: 0, End: 7, Text: "# Hello"},
		{Start: 8, End: 17, Text: "# @prompt"},
		{Start: 18, End: 25, Text: "# world"},
	}
	idx := promptcomment.New(source, tokens, promptcomment.AdjacencyBlankLineBreaks, ValidMarker)

	stmtStart, stmtEnd := 26, 39
	r := Resolve(idx, stmtStart, stmtEnd, false)
	if !r.HasPromptMarker {
		t.Error("expected HasPromptMarker = true")
	}
	if len(r.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(r.Annotations))
	}
	if r.Annotations[0].Span.Start != 0 {
		t.Errorf("annotation start = %d, want 0", r.Annotations[0].Span.Start)
	}
}

func TestResolveTypeScriptRefinement(t *testing.T) {
	source := []byte("// Hello, world\nconst hello = /* @prompt */ \"asd\";\n")
	tokens := []promptcomment.Token{
		{Start: 0, End: 15, Text: "// Hello, world"},
		{Start: 30, End: 43, Text: "/* @prompt */"},
	}
	idx := promptcomment.New(source, tokens, promptcomment.AdjacencyBlankLineTolerant, ValidMarker)

	stmtStart, stmtEnd := 16, 50
	r := Resolve(idx, stmtStart, stmtEnd, true)
	if !r.HasPromptMarker {
		t.Error("expected HasPromptMarker = true from inline marker")
	}
	if len(r.Annotations) != 2 {
		t.Fatalf("expected 2 annotations (leading + inline), got %d: %+v", len(r.Annotations), r.Annotations)
	}
	if r.Annotations[0].Text != "// Hello, world" {
		t.Errorf("first annotation = %q, want leading block", r.Annotations[0].Text)
	}
	if r.Annotations[1].Text != "/* @prompt */" {
		t.Errorf("second annotation = %q, want inline marker", r.Annotations[1].Text)
	}
}

func TestResolveWithoutTypeScriptRefinement(t *testing.T) {
	source := []byte("// Hello, world\nconst hello = /* @prompt */ \"asd\";\n")
	tokens := []promptcomment.Token{
		{Start: 0, End: 15, Text: "// Hello, world"},
		{Start: 30, End: 43, Text: "/* @prompt */"},
	}
	idx := promptcomment.New(source, tokens, promptcomment.AdjacencyBlankLineTolerant, ValidMarker)

	r := Resolve(idx, 16, 50, false)
	if len(r.Annotations) != 1 {
		t.Fatalf("expected only the inline marker without the refinement, got %d", len(r.Annotations))
	}
}

func TestResolveNegativePromptingIsNotAMarker(t *testing.T) {
	source := []byte("# @prompting\nhello = \"Hello, world!\"\n")
	tokens := []promptcomment.Token{{Start: 0, End: 12, Text: "# @prompting"}}
	idx := promptcomment.New(source, tokens, promptcomment.AdjacencyBlankLineBreaks, ValidMarker)

	r := Resolve(idx, 13, 37, false)
	if r.HasPromptMarker {
		t.Error("expected HasPromptMarker = false for @prompting")
	}
	if len(r.Annotations) != 0 {
		t.Errorf("expected no annotations, got %d", len(r.Annotations))
	}
}

func TestWithExtraMarkers(t *testing.T) {
	check := WithExtraMarkers([]string{"@llm-prompt"})
	if !check("# @prompt") {
		t.Error("expected the stock @prompt marker to still match")
	}
	if !check("# @llm-prompt") {
		t.Error("expected the extra marker to match")
	}
	if check("# @llm-prompting") {
		t.Error("expected @llm-prompting not to match, same boundary rule as @prompt")
	}
	if check("# no marker here") {
		t.Error("expected no match without any marker")
	}
}

func TestWithExtraMarkersEmptyIsValidMarker(t *testing.T) {
	check := WithExtraMarkers(nil)
	if check("# no marker") != ValidMarker("# no marker") {
		t.Error("expected WithExtraMarkers(nil) to behave exactly like ValidMarker")
	}
}

func TestResolveReassignment(t *testing.T) {
	defAnnotations := []prompttype.PromptAnnotation{
		{Span: prompttype.Span{Start: 0, End: 9}, Text: "# @prompt"},
	}
	r := ResolveReassignment(defAnnotations)
	if !r.HasPromptMarker {
		t.Error("expected HasPromptMarker = true when definition-time annotation carries a marker")
	}
	if len(r.Annotations) != 1 {
		t.Errorf("expected 1 annotation, got %d", len(r.Annotations))
	}
}
