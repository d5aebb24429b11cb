package adapter

import (
	"github.com/sourceprompt/promptscan/internal/promptspan"
	"github.com/sourceprompt/promptscan/internal/prompttype"
)

// quoteRunLength returns how many consecutive copies of source[at] appear
// starting at at (capped at 3, since no host language in this engine uses
// runs longer than triple-quoting).
func quoteRunLength(source []byte, at int) int {
	if at >= len(source) {
		return 0
	}
	q := source[at]
	n := 0
	for at+n < len(source) && source[at+n] == q && n < 3 {
		n++
	}
	return n
}

// stripQuoted builds a SpanShape for a quoted literal spanning
// source[start:end], skipping prefixLen prefix-sigil bytes (e.g. Python's
// f/r/u/fr/rf, C#'s $/@) before the opening quote. It detects a triple-
// quote opener when the host supports it and the run is >= 3; otherwise
// falls back to single-quote stripping.
func stripQuoted(source []byte, start, end, prefixLen int, allowTriple bool) prompttype.SpanShape {
	quoteStart := start + prefixLen
	run := quoteRunLength(source, quoteStart)

	delims := 1
	if allowTriple && run >= 3 {
		delims = 3
	}

	return promptspan.StripDelimiters(source, start, end, prefixLen+delims, delims)
}

// findUnescaped scans source[from:to) for byte b not preceded by an odd
// number of backslashes, returning its absolute offset or -1.
func findUnescaped(source []byte, from, to int, b byte) int {
	for i := from; i < to; i++ {
		if source[i] != b {
			continue
		}
		bs := 0
		for j := i - 1; j >= from && source[j] == '\\'; j-- {
			bs++
		}
		if bs%2 == 0 {
			return i
		}
	}
	return -1
}

// matchingCloser maps a percent-string/heredoc opener byte to its closer,
// for Ruby's %q(...)/%Q{...}/%q[...]/%q<...> delimiter pairs. Identical
// delimiters (e.g. %q|...|) close with themselves.
func matchingCloser(opener byte) byte {
	switch opener {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	case '<':
		return '>'
	default:
		return opener
	}
}

// scanBraceInterpolations finds every `${...}`/`#{...}`-shaped
// interpolation inside source[innerStart:innerEnd) whose opener is the
// given sigil ending in `{` (`${` for TS/JS, `#{` for Ruby), returning
// PromptVars with outer spans including the delimiters and inner spans
// excluding them. Nested braces are balanced so `${f({a: 1})}`-style
// expressions with inner `{`/`}` are handled as a whole.
func scanBraceInterpolations(source []byte, innerStart, innerEnd int, sigil string) []prompttype.PromptVar {
	var vars []prompttype.PromptVar
	i := innerStart
	for i < innerEnd {
		rel := indexAt(source, i, innerEnd, sigil)
		if rel < 0 {
			break
		}
		openBrace := rel + len(sigil) - 1 // the '{' byte is the sigil's last byte
		depth := 1
		j := openBrace + 1
		for j < innerEnd && depth > 0 {
			switch source[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			j++
		}
		if depth != 0 {
			break // unterminated; Tree Provider should already have flagged this as a parse error
		}
		outerStart := rel
		outerEnd := j
		innerVarStart := openBrace + 1
		innerVarEnd := j - 1
		vars = append(vars, promptspan.NewVar(source, outerStart, outerEnd, innerVarStart, innerVarEnd))
		i = outerEnd
	}
	return vars
}

// indexAt finds the next occurrence of sigil in source[from:to), returning
// its absolute offset or -1.
func indexAt(source []byte, from, to int, sigil string) int {
	n := len(sigil)
	for i := from; i+n <= to; i++ {
		if string(source[i:i+n]) == sigil {
			return i
		}
	}
	return -1
}

// scanEscapedBraceInterpolations finds every bare `{...}` interpolation in
// source[start:end), treating a doubled `{{`/`}}` as an escaped literal
// brace rather than an interpolation opener (Python f-strings, C#
// interpolated strings).
func scanEscapedBraceInterpolations(source []byte, start, end int) []prompttype.PromptVar {
	var vars []prompttype.PromptVar
	i := start
	for i < end {
		switch {
		case source[i] == '{':
			if i+1 < end && source[i+1] == '{' {
				i += 2
				continue
			}
			depth := 1
			j := i + 1
			for j < end && depth > 0 {
				switch source[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return vars // unterminated; Tree Provider already flags this as a parse error
			}
			vars = append(vars, promptspan.NewVar(source, i, j, i+1, j-1))
			i = j
		case source[i] == '}' && i+1 < end && source[i+1] == '}':
			i += 2
		default:
			i++
		}
	}
	return vars
}
