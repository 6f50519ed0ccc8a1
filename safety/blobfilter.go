// Package safety holds the output-side safety filters the orchestrator
// applies before returning refs to a caller.
package safety

import (
	"strings"
	"unicode/utf8"
)

const replacementChar = '�'

const minBlobLen = 40

// IsBlobPreview reports whether preview looks like a binary blob that
// should never be expanded: either (a) it is at least minBlobLen characters,
// contains no whitespace, and consists wholly of base64 alphabet characters,
// or (b) it contains the Unicode replacement character (evidence of a
// failed text decode upstream).
func IsBlobPreview(preview string) bool {
	if strings.ContainsRune(preview, replacementChar) {
		return true
	}

	runes := []rune(preview)
	if len(runes) < minBlobLen {
		return false
	}

	for _, r := range runes {
		if isSpace(r) {
			return false
		}
		if !isBase64Alphabet(r) {
			return false
		}
	}

	return true
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isBase64Alphabet(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '/' || r == '=':
		return true
	default:
		return false
	}
}

// ValidUTF8 reports whether s decodes as valid UTF-8. Exposed for callers
// assembling previews from raw file bytes before running IsBlobPreview.
func ValidUTF8(s string) bool {
	return utf8.ValidString(s)
}
