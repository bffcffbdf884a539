package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spanText(text string, s Span) string {
	return text[s.Start:s.End]
}

func findSpan(t *testing.T, text string, spans []Span, want string) Span {
	t.Helper()
	for _, s := range spans {
		if spanText(text, s) == want {
			return s
		}
	}
	t.Fatalf("no span covering %q in %v", want, spans)
	return Span{}
}

func TestJavaScriptSpans(t *testing.T) {
	t.Run("line comment swallows everything after it", func(t *testing.T) {
		text := "// let x = 5"
		spans := Spans(text, "javascript")
		require.Len(t, spans, 1)
		assert.Equal(t, Span{Start: 0, End: len(text), Class: ClassComment}, spans[0])
	})

	t.Run("keywords are whole-token only", func(t *testing.T) {
		text := "element.className = 'x';"
		for _, s := range Spans(text, "javascript") {
			assert.NotEqual(t, ClassKeyword, s.Class, "matched %q", spanText(text, s))
		}
	})

	t.Run("keyword inside a string stays string", func(t *testing.T) {
		text := `greet("let");`
		spans := Spans(text, "javascript")
		s := findSpan(t, text, spans, `"let"`)
		assert.Equal(t, ClassString, s.Class)
		s = findSpan(t, text, spans, "greet")
		assert.Equal(t, ClassFunction, s.Class)
	})

	t.Run("keyword before parenthesis is not a call site", func(t *testing.T) {
		text := "if (x) { foo(); }"
		spans := Spans(text, "javascript")
		assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "if").Class)
		assert.Equal(t, ClassFunction, findSpan(t, text, spans, "foo").Class)
	})

	t.Run("unterminated string runs to end of input", func(t *testing.T) {
		text := `let s = "abc`
		spans := Spans(text, "javascript")
		s := findSpan(t, text, spans, `"abc`)
		assert.Equal(t, ClassString, s.Class)
		assert.Equal(t, len(text), s.End)
	})

	t.Run("unterminated block comment runs to end of input", func(t *testing.T) {
		text := "let x = 1; /* open"
		spans := Spans(text, "javascript")
		s := findSpan(t, text, spans, "/* open")
		assert.Equal(t, ClassComment, s.Class)
	})

	t.Run("block comment wins over its contents", func(t *testing.T) {
		text := "/* const x = \"s\" 42 */ let y;"
		spans := Spans(text, "javascript")
		s := findSpan(t, text, spans, "/* const x = \"s\" 42 */")
		assert.Equal(t, ClassComment, s.Class)
		assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "let").Class)
	})

	t.Run("numbers and template literals", func(t *testing.T) {
		text := "const n = 3.14; const s = `hi ${n}`;"
		spans := Spans(text, "javascript")
		assert.Equal(t, ClassNumber, findSpan(t, text, spans, "3.14").Class)
		assert.Equal(t, ClassString, findSpan(t, text, spans, "`hi ${n}`").Class)
	})

	t.Run("typescript uses the same rules", func(t *testing.T) {
		text := "const x = 1;"
		assert.Equal(t, Spans(text, "javascript"), Spans(text, "typescript"))
	})
}

func TestPythonSpans(t *testing.T) {
	text := "def greet(name):\n    # say hi\n    print(\"hi\", 2)\n"
	spans := Spans(text, "python")

	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "def").Class)
	assert.Equal(t, ClassFunction, findSpan(t, text, spans, "greet").Class)
	assert.Equal(t, ClassComment, findSpan(t, text, spans, "# say hi").Class)
	assert.Equal(t, ClassFunction, findSpan(t, text, spans, "print").Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, `"hi"`).Class)
	assert.Equal(t, ClassNumber, findSpan(t, text, spans, "2").Class)

	t.Run("triple quoted strings", func(t *testing.T) {
		text := "x = \"\"\"multi\nline with def inside\"\"\"\n"
		spans := Spans(text, "python")
		s := findSpan(t, text, spans, "\"\"\"multi\nline with def inside\"\"\"")
		assert.Equal(t, ClassString, s.Class)
	})
}

func TestHTMLSpans(t *testing.T) {
	text := `<div class="box" id='main'>hi</div>`
	spans := Spans(text, "html")

	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "<div").Class)
	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "</div").Class)
	assert.Equal(t, ClassVariable, findSpan(t, text, spans, "class").Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, `"box"`).Class)
	assert.Equal(t, ClassVariable, findSpan(t, text, spans, "id").Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, "'main'").Class)

	t.Run("comment wins over markup inside it", func(t *testing.T) {
		text := `<!-- <div class="x"> -->`
		spans := Spans(text, "html")
		require.Len(t, spans, 1)
		assert.Equal(t, ClassComment, spans[0].Class)
	})
}

func TestCSSSpans(t *testing.T) {
	text := ".box {\n    color: red;\n}\n/* note */"
	spans := Spans(text, "css")

	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, ".box").Class)
	assert.Equal(t, ClassVariable, findSpan(t, text, spans, "color").Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, "red").Class)
	assert.Equal(t, ClassComment, findSpan(t, text, spans, "/* note */").Class)
}

func TestJSONSpans(t *testing.T) {
	text := `{"name": "box", "count": 3, "on": true, "none": null}`
	spans := Spans(text, "json")

	assert.Equal(t, ClassVariable, findSpan(t, text, spans, `"name"`).Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, `"box"`).Class)
	assert.Equal(t, ClassNumber, findSpan(t, text, spans, "3").Class)
	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "true").Class)
	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "null").Class)
}

func TestMarkdownSpans(t *testing.T) {
	text := "# Title\n\nSome `code` and **bold**.\n\n```javascript\nlet x = 1;\n```\n"
	spans := Spans(text, "markdown")

	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "# Title").Class)
	assert.Equal(t, ClassString, findSpan(t, text, spans, "`code`").Class)
	assert.Equal(t, ClassVariable, findSpan(t, text, spans, "**bold**").Class)

	// The fenced block recurses with its declared language.
	assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "let").Class)
	assert.Equal(t, ClassNumber, findSpan(t, text, spans, "1").Class)
	assert.Equal(t, ClassComment, findSpan(t, text, spans, "```javascript\n").Class)

	t.Run("prose rules never match inside a fence", func(t *testing.T) {
		text := "```\n# not a heading\n```\n"
		for _, s := range Spans(text, "markdown") {
			assert.NotEqual(t, ClassKeyword, s.Class, "matched %q", spanText(text, s))
		}
	})

	t.Run("unclosed fence runs to end of input", func(t *testing.T) {
		text := "before\n```python\ndef f():\n"
		spans := Spans(text, "markdown")
		assert.Equal(t, ClassKeyword, findSpan(t, text, spans, "def").Class)
	})
}

func TestSpansInvariants(t *testing.T) {
	inputs := []struct{ text, lang string }{
		{"", "javascript"},
		{`let s = "unterminated`, "javascript"},
		{"/* /* nested */ */", "javascript"},
		{strings.Repeat("/*", 500), "javascript"},
		{"<div><div><div>", "html"},
		{"weird { ; } : input", "css"},
		{"not json at all", "json"},
		{"```\n```\n```\n", "markdown"},
		{"anything", "not-a-language"},
	}

	for _, in := range inputs {
		spans := Spans(in.text, in.lang)

		// Sorted and non-overlapping, within bounds.
		for i, s := range spans {
			assert.True(t, s.Start < s.End, "%q %s", in.text, in.lang)
			assert.True(t, s.End <= len(in.text))
			if i > 0 {
				assert.True(t, spans[i-1].End <= s.Start, "overlap in %q", in.text)
			}
		}

		// Deterministic.
		assert.Equal(t, spans, Spans(in.text, in.lang))
	}
}

func TestHighlight(t *testing.T) {
	t.Run("unknown language returns escaped input with no spans", func(t *testing.T) {
		assert.Equal(t, "a &lt; b &amp; c", Highlight("a < b & c", "brainfuck"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", Highlight("", "javascript"))
	})

	t.Run("escapes exactly once, at render time", func(t *testing.T) {
		out := Highlight(`if (a < b) { s = "x & y"; }`, "javascript")
		assert.Contains(t, out, "&lt;")
		assert.Contains(t, out, `<span class="string">&#34;x &amp; y&#34;</span>`)
		assert.NotContains(t, out, "&amp;lt;")
		assert.NotContains(t, out, "&amp;amp;")
	})

	t.Run("wraps classified spans", func(t *testing.T) {
		out := Highlight("// note", "javascript")
		assert.Equal(t, `<span class="comment">// note</span>`, out)
	})
}
