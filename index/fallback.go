package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vriveras/refcore/workspace"
)

// fullScan runs the enhanced matcher over every known session, used when
// the index is absent, Tier 1 finds no candidates, or Tier 3 yields zero
// results.
func fullScan(ctx context.Context, store workspace.FileStore, sessions []*Session, queryTokens []string, temporal *TemporalFilter) ([]EnhancedMatchResult, error) {
	filtered := make([]*Session, 0, len(sessions))
	for _, s := range sessions {
		if temporal == nil || temporal.Allows(s.Date) {
			filtered = append(filtered, s)
		}
	}

	results := make([]EnhancedMatchResult, len(filtered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for i, s := range filtered {
		g.Go(func() error {
			lines, err := store.Lines(gctx, s.Path)
			if err != nil {
				return nil
			}
			id, ok := workspace.SessionIDFromPath(s.Path)
			if !ok {
				id = s.Path
			}
			results[i] = enhancedMatch(id, lines, queryTokens)
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
