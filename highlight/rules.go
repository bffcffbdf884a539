package highlight

import (
	"regexp"

	"codestudio/common"
)

// Per-language pipelines. Pass order is load-bearing: comments before
// strings, strings before numbers and keywords, keywords before call sites,
// with earlier claims always winning. Unterminated strings and block comments
// match greedily to end of input; a lexical highlighter classifies the open
// remainder as the open construct rather than guessing where it should have
// closed.

const jsKeywords = `const|let|var|function|class|extends|import|export|` +
	`if|else|for|while|do|switch|case|default|break|` +
	`continue|return|try|catch|finally|throw|async|await|` +
	`true|false|null|undefined|typeof|instanceof|new|this`

const pyKeywords = `def|class|if|elif|else|for|while|with|as|` +
	`try|except|finally|raise|import|from|return|` +
	`break|continue|pass|lambda|yield|global|nonlocal|` +
	`True|False|None|and|or|not|in|is`

var jsRules = []rule{
	pass(`(?s)//[^\n]*|/\*.*?(?:\*/|$)`, ClassComment),
	pass(`(?s)"(?:\\.|[^"\\])*"?|'(?:\\.|[^'\\])*'?`+"|`(?:\\\\.|[^`\\\\])*`?", ClassString),
	pass(`\b\d+(?:\.\d+)?\b`, ClassNumber),
	pass(`\b(?:`+jsKeywords+`)\b`, ClassKeyword),
	groupPass(`\b(\w+)\s*\(`, target{1, ClassFunction}),
}

var pyRules = []rule{
	pass(`#[^\n]*`, ClassComment),
	pass(`(?s)""".*?(?:"""|$)|'''.*?(?:'''|$)|"(?:\\.|[^"\\])*"?|'(?:\\.|[^'\\])*'?`, ClassString),
	pass(`\b\d+(?:\.\d+)?\b`, ClassNumber),
	pass(`\b(?:`+pyKeywords+`)\b`, ClassKeyword),
	groupPass(`\bdef\s+(\w+)`, target{1, ClassFunction}),
	groupPass(`\b(\w+)\s*\(`, target{1, ClassFunction}),
}

var htmlRules = []rule{
	pass(`(?s)<!--.*?(?:-->|$)`, ClassComment),
	groupPass(`([\w-]+)=("[^"]*"|'[^']*')`, target{1, ClassVariable}, target{2, ClassString}),
	pass(`</?[a-zA-Z][\w-]*`, ClassKeyword),
}

var cssRules = []rule{
	pass(`(?s)/\*.*?(?:\*/|$)`, ClassComment),
	groupPass(`([.#]?[\w-]+)\s*\{`, target{1, ClassKeyword}),
	groupPass(`([\w-]+)\s*:`, target{1, ClassVariable}),
	groupPass(`:\s*([^;{}\n]+)`, target{1, ClassString}),
}

var jsonRules = []rule{
	groupPass(`("(?:\\.|[^"\\])*")\s*:`, target{1, ClassVariable}),
	pass(`"(?:\\.|[^"\\])*"?`, ClassString),
	pass(`-?\b\d+(?:\.\d+)?\b`, ClassNumber),
	pass(`\b(?:true|false|null)\b`, ClassKeyword),
}

var languageRules = map[string][]rule{
	common.LanguageJavaScript: jsRules,
	common.LanguageTypeScript: jsRules,
	common.LanguagePython:     pyRules,
	common.LanguageHTML:       htmlRules,
	common.LanguageCSS:        cssRules,
	common.LanguageJSON:       jsonRules,
}

var markdownRules = []rule{
	pass(`(?m)^#{1,6}[^\n]*`, ClassKeyword),
	pass(`(?m)^>[^\n]*`, ClassComment),
	pass("`[^`\n]+`", ClassString),
	pass(`\*\*[^*\n]+\*\*`, ClassVariable),
	pass(`\*[^*\n]+\*`, ClassVariable),
	groupPass(`\[([^\]\n]*)\]\(([^)\n]*)\)`, target{1, ClassVariable}, target{2, ClassString}),
}

var fenceRe = regexp.MustCompile("(?s)```([\\w-]*)[^\n]*\n?(.*?)(?:```|$)")

// markdownSpans runs the markdown pipeline. Fenced code blocks are recursed
// with the block's declared language tag; the fence delimiters and info
// string are classified as comment. Fence regions are masked out before the
// outer markdown passes run so prose rules never match inside code.
func markdownSpans(text string, claims *claimSet) {
	masked := []byte(text)
	for _, m := range fenceRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		lang := text[m[2]:m[3]]
		contentStart, contentEnd := m[4], m[5]

		claims.claim(start, contentStart, ClassComment)
		for _, s := range Spans(text[contentStart:contentEnd], lang) {
			claims.claim(contentStart+s.Start, contentStart+s.End, s.Class)
		}
		claims.claim(contentEnd, end, ClassComment)

		for i := start; i < end; i++ {
			masked[i] = ' '
		}
	}
	applyRules(string(masked), markdownRules, claims)
}
