// Package tokenize implements the single tokenisation function shared by
// the inverted index's build path and its query path. Index-time and
// query-time calls MUST produce identical output for identical input —
// that determinism is the whole reason this lives in one package instead
// of being duplicated at each call site.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const minTokenLen = 3

// Tokenize lowercases text, splits on non-alphanumeric boundaries as well as
// kebab/snake/camel-case boundaries, drops tokens shorter than three
// characters, and drops the closed stopword set. No stemming is performed.
// Duplicates are preserved: callers that build frequency counts (the index
// build path) need raw occurrence counts, so dedup happens downstream, not
// here.
func Tokenize(text string) []string {
	words := splitWords(text)

	var raw []string
	for _, w := range words {
		raw = append(raw, splitCompound(w)...)
	}

	lowered := lo.Map(raw, func(part string, _ int) string {
		return strings.ToLower(part)
	})

	return lo.Filter(lowered, func(tok string, _ int) bool {
		return len(tok) >= minTokenLen && !IsStopword(tok)
	})
}

// splitWords breaks text on anything that is not a letter or digit —
// punctuation, whitespace, and kebab/snake separators all fall out here.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// splitCompound further splits an already-alphanumeric word on camelCase
// boundaries, e.g. "readMessage" -> ["read", "Message"]. Words without a
// case boundary pass through unchanged. Kebab/snake boundaries are already
// handled by splitWords since '-' and '_' are non-alphanumeric.
func splitCompound(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		if unicode.IsLower(prev) && unicode.IsUpper(cur) {
			boundary = true
		} else if unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			boundary = true
		} else if unicode.IsLetter(prev) && unicode.IsDigit(cur) {
			boundary = true
		} else if unicode.IsDigit(prev) && unicode.IsLetter(cur) {
			boundary = true
		}
		if boundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	parts = append(parts, string(runes[start:]))
	return parts
}
