package common

import (
	"path/filepath"
	"strings"
)

// Language ids used across the workspace and the highlighting pipeline.
const (
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
	LanguagePython     = "python"
	LanguageHTML       = "html"
	LanguageCSS        = "css"
	LanguageJSON       = "json"
	LanguageMarkdown   = "markdown"
	LanguageText       = "text"
)

var extensionLanguages = map[string]string{
	".js":   LanguageJavaScript,
	".jsx":  LanguageJavaScript,
	".mjs":  LanguageJavaScript,
	".ts":   LanguageTypeScript,
	".tsx":  LanguageTypeScript,
	".py":   LanguagePython,
	".html": LanguageHTML,
	".htm":  LanguageHTML,
	".css":  LanguageCSS,
	".json": LanguageJSON,
	".md":   LanguageMarkdown,
}

// InferLanguage maps a file name to a language id by extension, falling back
// to plain text.
func InferLanguage(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return LanguageText
}

var languageDisplayNames = map[string]string{
	LanguageJavaScript: "JavaScript",
	LanguageTypeScript: "TypeScript",
	LanguagePython:     "Python",
	LanguageHTML:       "HTML",
	LanguageCSS:        "CSS",
	LanguageJSON:       "JSON",
	LanguageMarkdown:   "Markdown",
	LanguageText:       "Plain Text",
}

func LanguageDisplayName(languageId string) string {
	if name, ok := languageDisplayNames[languageId]; ok {
		return name
	}
	return "Plain Text"
}
