package promptcomment

import "testing"

func isPromptMarker(text string) bool {
	// Minimal standalone marker check for this package's tests; the real
	// grammar lives in internal/promptannotation.
	return containsWord(text, "@prompt")
}

func containsWord(haystack, word string) bool {
	i := 0
	for {
		idx := indexFrom(haystack, word, i)
		if idx < 0 {
			return false
		}
		after := idx + len(word)
		if after == len(haystack) || haystack[after] == ' ' || haystack[after] == '\n' || haystack[after] == '\t' || haystack[after] == '*' || haystack[after] == '/' {
			before := idx - 1
			if before < 0 || haystack[before] == ' ' || haystack[before] == '\n' || haystack[before] == '\t' || haystack[before] == '#' || haystack[before] == '*' {
				return true
			}
		}
		i = idx + 1
	}
}

func indexFrom(s, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestAdjacentLeadingBlockPython(t *testing.T) {
	source := []byte("# Hello\n# @prompt\n# world\nmsg = \"Hello\"\n")
	tokens := []Token{
		{Start: 0, End: 7, Text: "# Hello"},
		{Start: 8, End: 17, Text: "# @prompt"},
		{Start: 18, End: 25, Text: "# world"},
	}
	idx := New(source, tokens, AdjacencyBlankLineBreaks, isPromptMarker)

	stmtStart := 26
	ann, ok := idx.AdjacentLeadingBlock(stmtStart)
	if !ok {
		t.Fatal("expected a leading block")
	}
	if ann.Span.Start != 0 || ann.Span.End != 25 {
		t.Errorf("span = %v, want (0,25)", ann.Span)
	}
	want := "# Hello\n# @prompt\n# world"
	if ann.Text != want {
		t.Errorf("text = %q, want %q", ann.Text, want)
	}
}

func TestAdjacentLeadingBlockBlankLineBreaksPython(t *testing.T) {
	source := []byte("# @prompt\n\nmsg = \"hi\"\n")
	tokens := []Token{{Start: 0, End: 9, Text: "# @prompt"}}
	idx := New(source, tokens, AdjacencyBlankLineBreaks, isPromptMarker)

	_, ok := idx.AdjacentLeadingBlock(11)
	if ok {
		t.Error("expected blank line to break adjacency under AdjacencyBlankLineBreaks")
	}
}

func TestAdjacentLeadingBlockBlankLineTolerantTS(t *testing.T) {
	source := []byte("// @prompt\n\nconst x = \"hi\";\n")
	tokens := []Token{{Start: 0, End: 10, Text: "// @prompt"}}
	idx := New(source, tokens, AdjacencyBlankLineTolerant, isPromptMarker)

	ann, ok := idx.AdjacentLeadingBlock(12)
	if !ok {
		t.Fatal("expected blank line to be tolerated under AdjacencyBlankLineTolerant")
	}
	if ann.Text != "// @prompt" {
		t.Errorf("text = %q", ann.Text)
	}
}

func TestAdjacentLeadingBlockRequiresMarker(t *testing.T) {
	source := []byte("# just a comment\nmsg = \"hi\"\n")
	tokens := []Token{{Start: 0, End: 16, Text: "# just a comment"}}
	idx := New(source, tokens, AdjacencyBlankLineBreaks, isPromptMarker)

	_, ok := idx.AdjacentLeadingBlock(17)
	if ok {
		t.Error("expected no leading block without a @prompt marker")
	}
}

func TestAnyLeadingAnnotationIgnoresMarker(t *testing.T) {
	source := []byte("// Hello, world\nconst hello = \"asd\";\n")
	tokens := []Token{{Start: 0, End: 15, Text: "// Hello, world"}}
	idx := New(source, tokens, AdjacencyBlankLineTolerant, isPromptMarker)

	ann, ok := idx.AnyLeadingAnnotation(16)
	if !ok {
		t.Fatal("expected a leading annotation regardless of marker")
	}
	if ann.Text != "// Hello, world" {
		t.Errorf("text = %q", ann.Text)
	}
}

func TestAnyLeadingStart(t *testing.T) {
	source := []byte("# @prompt\nsystem = 1\n")
	tokens := []Token{{Start: 0, End: 9, Text: "# @prompt"}}
	idx := New(source, tokens, AdjacencyBlankLineBreaks, isPromptMarker)

	if start := idx.AnyLeadingStart(10); start != 0 {
		t.Errorf("AnyLeadingStart = %d, want 0", start)
	}
	if start := idx.AnyLeadingStart(0); start != -1 {
		t.Errorf("AnyLeadingStart with no comments before stmt = %d, want -1", start)
	}
}

func TestInlineMarkers(t *testing.T) {
	source := []byte(`const hello = /* @prompt */ "asd";`)
	tokens := []Token{{Start: 14, End: 27, Text: "/* @prompt */"}}
	idx := New(source, tokens, AdjacencyBlankLineTolerant, isPromptMarker)

	markers := idx.InlineMarkers(0, int(len(source)))
	if len(markers) != 1 {
		t.Fatalf("expected 1 inline marker, got %d", len(markers))
	}
	if markers[0].Text != "/* @prompt */" {
		t.Errorf("text = %q", markers[0].Text)
	}
}

func TestInlineMarkersExcludesNonMarkers(t *testing.T) {
	source := []byte(`const hello = /* just a note */ "asd";`)
	tokens := []Token{{Start: 14, End: 31, Text: "/* just a note */"}}
	idx := New(source, tokens, AdjacencyBlankLineTolerant, isPromptMarker)

	markers := idx.InlineMarkers(0, len(source))
	if len(markers) != 0 {
		t.Errorf("expected 0 inline markers, got %d", len(markers))
	}
}
