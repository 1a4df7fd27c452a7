package seq2seq

import (
	"regexp"
	"strings"
)

// Sentinel tokens bounding every sentence in both vocabularies.
const (
	StartToken = "<start>"
	EndToken   = "<end>"
)

var (
	punctuation = regexp.MustCompile(`([?.!\-\\,])`)
	disallowed  = regexp.MustCompile(`[^\x{0D80}-\x{0DFF}a-zA-Z?.!\-\\,']`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases s, isolates punctuation and drops every character outside
// the Sinhala block, ASCII letters, the punctuation marks and apostrophe.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = punctuation.ReplaceAllString(s, " $1 ")
	s = disallowed.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Preprocess normalizes s and wraps it in the start and end sentinels.
func Preprocess(s string) string {
	n := Normalize(s)
	if n == "" {
		return StartToken + " " + EndToken
	}
	return StartToken + " " + n + " " + EndToken
}
