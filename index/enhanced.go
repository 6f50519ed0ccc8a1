package index

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/vriveras/refcore/tokenize"
)

const (
	maxContentWords  = 2000
	maxSubstringScan = 1000
	maxFuzzyScan     = 500
	maxFuzzyTokenLen = 24
	fuzzyMaxDistance = 2
)

// conceptMap is the closed, static vocabulary-expansion table for Tier 3's
// concept-expansion strategy: a concept key maps to related terms that
// should also be treated as matches for that concept.
var conceptMap = map[string][]string{
	"glicko":   {"rating", "chess", "elo", "leaderboard"},
	"auth":     {"authentication", "login", "token", "session"},
	"cache":    {"memcache", "redis", "ttl", "evict"},
	"index":    {"inverted", "posting", "token", "search"},
	"retry":    {"backoff", "attempt", "retries"},
	"embed":    {"embedding", "vector", "similarity"},
	"transcript": {"session", "conversation", "message"},
}

// LineHit is one line of a session transcript that matched a query, with
// the strategy-combined score that produced it.
type LineHit struct {
	Line  int
	Text  string
	Score float64
}

// EnhancedMatchResult is the outcome of running the enhanced matcher
// against a single session.
type EnhancedMatchResult struct {
	SessionID  string
	Hits       []LineHit
	MatchScore float64
}

// enhancedMatch runs the four Tier-3 strategies (substring containment,
// compound splitting, Levenshtein fuzzy matching, concept expansion)
// against lines, capped for cost: at most maxContentWords total content
// words considered, maxSubstringScan for the substring strategy,
// maxFuzzyScan for the fuzzy strategy.
func enhancedMatch(sessionID string, lines []string, queryTokens []string) EnhancedMatchResult {
	expanded := expandConcepts(queryTokens)

	var hits []LineHit
	var totalScore float64
	wordsSeen := 0

	for lineNo, line := range lines {
		if wordsSeen >= maxContentWords {
			break
		}
		words := strings.Fields(line)
		wordsSeen += len(words)

		lineScore, matched := scoreLine(line, words, expanded, wordsSeen)
		if matched {
			hits = append(hits, LineHit{Line: lineNo + 1, Text: line, Score: lineScore})
			totalScore += lineScore
		}
	}

	return EnhancedMatchResult{SessionID: sessionID, Hits: hits, MatchScore: totalScore}
}

// scoreLine applies the four strategies to one line and returns its
// combined score and whether it matched at all. wordsConsumedSoFar lets the
// substring/fuzzy scan caps apply across the whole session, not per line.
func scoreLine(line string, words []string, expandedQuery map[string]struct{}, wordsConsumedSoFar int) (float64, bool) {
	lower := strings.ToLower(line)
	var score float64
	matched := false

	// (i) substring containment, capped to the first maxSubstringScan words
	// of content examined across the session.
	if wordsConsumedSoFar <= maxSubstringScan {
		for tok := range expandedQuery {
			if strings.Contains(lower, tok) {
				score += 1.0
				matched = true
			}
		}
	}

	// (ii) compound splitting: re-split line words on camel/kebab/snake
	// boundaries and compare tokens directly (handled by the shared
	// tokenizer's compound logic, imported to avoid duplicating it here).
	for _, w := range words {
		for _, part := range compoundParts(w) {
			if _, ok := expandedQuery[strings.ToLower(part)]; ok {
				score += 0.5
				matched = true
			}
		}
	}

	// (iii) Levenshtein fuzzy match, capped to the first maxFuzzyScan words.
	if wordsConsumedSoFar <= maxFuzzyScan {
		for _, w := range words {
			w = strings.ToLower(w)
			if len(w) == 0 || len(w) > maxFuzzyTokenLen {
				continue
			}
			for tok := range expandedQuery {
				if len(tok) > maxFuzzyTokenLen {
					continue
				}
				if levenshtein.Distance(w, tok, nil) <= fuzzyMaxDistance {
					score += 0.25
					matched = true
				}
			}
		}
	}

	return score, matched
}

// expandConcepts returns the query tokens plus, for any token that is a
// concept key, its related term set — strategy (iv).
func expandConcepts(tokens []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		out[strings.ToLower(t)] = struct{}{}
		if related, ok := conceptMap[strings.ToLower(t)]; ok {
			for _, r := range related {
				out[r] = struct{}{}
			}
		}
	}
	return out
}

// compoundParts splits a content word with tokenize.Tokenize, the same
// camel/kebab/snake split applied to the query side, so strategy (ii)
// behaves symmetrically.
func compoundParts(word string) []string {
	return tokenize.Tokenize(word)
}

// sortHitsByScore sorts hits descending by score, stable on line number.
func sortHitsByScore(hits []LineHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
}
