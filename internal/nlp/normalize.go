package nlp

import (
	"regexp"
	"strings"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	specialPattern    = regexp.MustCompile(`[^\w\s.,!?'"-]`)
)

// Normalize lowercases text, collapses runs of whitespace, and strips
// special characters outside basic punctuation. The pipeline normalizes
// once and feeds the result to both the analyzer and the fact extractor.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = specialPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
