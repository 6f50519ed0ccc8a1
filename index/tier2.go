package index

import (
	"sort"
	"strings"
)

// DefaultCoarseRetain is the number of candidates retained after coarse
// scoring, before the expensive Tier 3 matcher runs.
const DefaultCoarseRetain = 40

type coarseResult struct {
	sessionID string
	score     float64
}

// tier2Coarse scores each candidate session by the fraction of query tokens
// that occur as a substring of that session's digest, and retains the top
// candidates. Complexity: O(|candidates|).
func tier2Coarse(idx *Index, candidates []string, queryTokens []string, kc int) []coarseResult {
	if kc <= 0 {
		kc = DefaultCoarseRetain
	}

	results := make([]coarseResult, 0, len(candidates))
	for _, id := range candidates {
		sess := idx.Session(id)
		if sess == nil {
			continue
		}
		digest := strings.ToLower(sess.Digest)
		hits := 0
		for _, tok := range queryTokens {
			if strings.Contains(digest, tok) {
				hits++
			}
		}
		var score float64
		if len(queryTokens) > 0 {
			score = float64(hits) / float64(len(queryTokens))
		}
		results = append(results, coarseResult{sessionID: id, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].sessionID < results[j].sessionID
	})

	if len(results) > kc {
		results = results[:kc]
	}
	return results
}
