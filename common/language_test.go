package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferLanguage(t *testing.T) {
	assert.Equal(t, LanguageJavaScript, InferLanguage("main.js"))
	assert.Equal(t, LanguageTypeScript, InferLanguage("app.TS"))
	assert.Equal(t, LanguagePython, InferLanguage("script.py"))
	assert.Equal(t, LanguageMarkdown, InferLanguage("README.md"))
	assert.Equal(t, LanguageText, InferLanguage("notes.txt"))
	assert.Equal(t, LanguageText, InferLanguage("Makefile"))
}

func TestLanguageDisplayName(t *testing.T) {
	assert.Equal(t, "JavaScript", LanguageDisplayName(LanguageJavaScript))
	assert.Equal(t, "Plain Text", LanguageDisplayName("cobol"))
}
