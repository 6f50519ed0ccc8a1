package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vriveras/refcore/workspace"
)

// tier3Enhanced runs the enhanced matcher against every candidate in
// parallel, applying an optional temporal filter first. Complexity is
// bounded per-session by the caps in enhanced.go.
func tier3Enhanced(ctx context.Context, store workspace.FileStore, idx *Index, candidates []coarseResult, queryTokens []string, temporal *TemporalFilter) ([]EnhancedMatchResult, error) {
	filtered := make([]coarseResult, 0, len(candidates))
	for _, c := range candidates {
		if temporal != nil {
			sess := idx.Session(c.sessionID)
			if sess == nil || !temporal.Allows(sess.Date) {
				continue
			}
		}
		filtered = append(filtered, c)
	}

	results := make([]EnhancedMatchResult, len(filtered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for i, c := range filtered {
		g.Go(func() error {
			sess := idx.Session(c.sessionID)
			if sess == nil {
				return nil
			}
			lines, err := store.Lines(gctx, sess.Path)
			if err != nil {
				// A single unreadable session degrades that session's
				// contribution to zero rather than failing the query.
				results[i] = EnhancedMatchResult{SessionID: c.sessionID}
				return nil
			}
			results[i] = enhancedMatch(c.sessionID, lines, queryTokens)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]EnhancedMatchResult, 0, len(results))
	for _, r := range results {
		if r.SessionID != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

// TemporalFilter restricts candidates to sessions whose date lies in an
// inclusive ISO-8601 date range.
type TemporalFilter struct {
	From string
	To   string
}

// Allows reports whether date (expected ISO-8601, e.g. "2026-07-29") falls
// within the filter's inclusive range. A malformed or empty date never
// matches a non-empty filter.
func (f *TemporalFilter) Allows(date string) bool {
	if f == nil {
		return true
	}
	if date == "" {
		return false
	}
	if f.From != "" && date < f.From {
		return false
	}
	if f.To != "" && date > f.To {
		return false
	}
	return true
}
