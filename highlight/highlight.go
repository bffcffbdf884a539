package highlight

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"codestudio/common"
)

// Class is the classification of a highlighted span.
type Class string

const (
	ClassKeyword  Class = "keyword"
	ClassString   Class = "string"
	ClassNumber   Class = "number"
	ClassComment  Class = "comment"
	ClassFunction Class = "function"
	ClassVariable Class = "variable"
	ClassPlain    Class = "plain"
)

// Span is a classified byte range of the input. Spans never overlap; gaps
// between them are implicitly plain text.
type Span struct {
	Start int   `json:"start"`
	End   int   `json:"end"`
	Class Class `json:"class"`
}

// target maps a regexp capture group to a class. Group 0 is the whole match.
type target struct {
	group int
	class Class
}

// rule is one pass of a language's pipeline. Passes run in order and earlier
// claims win: a later pass never re-tags an already classified region.
type rule struct {
	re      *regexp.Regexp
	targets []target
}

func pass(pattern string, class Class) rule {
	return rule{re: regexp.MustCompile(pattern), targets: []target{{0, class}}}
}

func groupPass(pattern string, targets ...target) rule {
	return rule{re: regexp.MustCompile(pattern), targets: targets}
}

// claimSet tracks which regions are already classified.
type claimSet struct {
	spans []Span
}

func (c *claimSet) overlaps(start, end int) bool {
	for _, s := range c.spans {
		if start < s.End && s.Start < end {
			return true
		}
	}
	return false
}

// claim records [start, end) with the given class if the region is free.
func (c *claimSet) claim(start, end int, class Class) bool {
	if start >= end || c.overlaps(start, end) {
		return false
	}
	c.spans = append(c.spans, Span{Start: start, End: end, Class: class})
	return true
}

func (c *claimSet) sorted() []Span {
	sort.Slice(c.spans, func(i, j int) bool { return c.spans[i].Start < c.spans[j].Start })
	return c.spans
}

func applyRules(text string, rules []rule, claims *claimSet) {
	for _, r := range rules {
		for _, match := range r.re.FindAllStringSubmatchIndex(text, -1) {
			for _, tgt := range r.targets {
				start, end := match[2*tgt.group], match[2*tgt.group+1]
				if start < 0 {
					continue
				}
				claims.claim(start, end, tgt.class)
			}
		}
	}
}

// Spans classifies text for the given language id. It is pure and total:
// unknown languages (and empty input) yield no spans. The returned spans are
// sorted and non-overlapping.
func Spans(text, languageId string) []Span {
	if text == "" {
		return nil
	}

	claims := &claimSet{}
	switch strings.ToLower(languageId) {
	case common.LanguageMarkdown:
		markdownSpans(text, claims)
	default:
		rules, ok := languageRules[strings.ToLower(languageId)]
		if !ok {
			return nil
		}
		applyRules(text, rules, claims)
	}
	return claims.sorted()
}

// Highlight renders text as markup with each classified span wrapped in a
// span element. The raw input is escaped exactly once, at render time, so
// classification wrapping is never re-escaped. Unknown languages return the
// escaped input unchanged.
func Highlight(text, languageId string) string {
	spans := Spans(text, languageId)
	if len(spans) == 0 {
		return html.EscapeString(text)
	}

	var b strings.Builder
	pos := 0
	for _, s := range spans {
		b.WriteString(html.EscapeString(text[pos:s.Start]))
		b.WriteString(`<span class="`)
		b.WriteString(string(s.Class))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(text[s.Start:s.End]))
		b.WriteString(`</span>`)
		pos = s.End
	}
	b.WriteString(html.EscapeString(text[pos:]))
	return b.String()
}
