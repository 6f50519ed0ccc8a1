package retrieval

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	fileTokenPattern = regexp.MustCompile(`\b[\w./-]+\.(md|ts|tsx|js|jsx|json|py|yml|yaml|toml|sh)\b`)
	identifierPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9_-]{2,}\b`)
)

// derivationStopwords is a small closed set, distinct from and much
// smaller than tokenize's general stopword list — it targets terms that
// recur in the URL/file-token/identifier extraction itself.
var derivationStopwords = map[string]struct{}{
	"http": {}, "https": {}, "from": {}, "lines": {}, "default": {}, "true": {}, "false": {},
}

const (
	minTermLen = 4
	maxTermLen = 80
)

// deriveQuery derives a follow-up query from text: extract URLs, then
// file-like tokens, then identifiers (in that order), filter to length
// [4, 80], drop the closed stopword set, deduplicate preserving order,
// and cap at maxTerms.
func deriveQuery(text string, maxTerms int) string {
	var candidates []string
	candidates = append(candidates, urlPattern.FindAllString(text, -1)...)
	candidates = append(candidates, fileTokenPattern.FindAllString(text, -1)...)
	candidates = append(candidates, identifierPattern.FindAllString(text, -1)...)

	candidates = lo.Filter(candidates, func(c string, _ int) bool {
		if len(c) < minTermLen || len(c) > maxTermLen {
			return false
		}
		_, stop := derivationStopwords[strings.ToLower(c)]
		return !stop
	})

	candidates = lo.UniqBy(candidates, strings.ToLower)

	if len(candidates) > maxTerms {
		candidates = candidates[:maxTerms]
	}

	return strings.Join(candidates, " ")
}
