// Package textclean normalizes raw extracted text into the canonical form
// used by the corpus: Telugu script plus basic punctuation only.
package textclean

import (
	"regexp"
	"strings"
)

var (
	bracketed     = regexp.MustCompile(`\[[^\[\]]*\]`)
	parenthetical = regexp.MustCompile(`\([^()]*\)`)
	// Telugu Unicode block plus whitelisted punctuation and whitespace.
	nonTelugu  = regexp.MustCompile(`[^\x{0C00}-\x{0C7F}\s.,!?]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Clean removes citation markers and parenthetical asides, strips every
// character outside the Telugu block except basic punctuation and
// whitespace, collapses whitespace runs to a single space, and trims.
// Pure: identical input always yields identical output.
func Clean(text string) string {
	text = bracketed.ReplaceAllString(text, "")
	text = parenthetical.ReplaceAllString(text, "")
	text = nonTelugu.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Length reports the cleaned length in characters, not bytes. Telugu
// codepoints are three bytes in UTF-8, so byte counts would triple every
// threshold in the pipeline.
func Length(text string) int {
	return len([]rune(text))
}
