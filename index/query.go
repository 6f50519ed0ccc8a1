package index

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/vriveras/refcore/tokenize"
	"github.com/vriveras/refcore/workspace"
)

// SearchPath reports which path produced a Search result.
type SearchPath string

const (
	PathIndex    SearchPath = "index"
	PathFallback SearchPath = "fallback"
	PathHybrid   SearchPath = "hybrid"
)

// Result is one hit returned by Search: a session, the lines that matched,
// and the score that ranked it.
type Result struct {
	SessionID string
	Path      string
	Hits      []LineHit
	Score     float64
}

// SearchOptions configures a single Search call.
type SearchOptions struct {
	MaxResults    int
	TemporalFilter *TemporalFilter
	// CoarseRetain overrides Tier 2's Kc; zero uses DefaultCoarseRetain.
	CoarseRetain int
}

// SearchReport is the contract's full return value: results plus the
// pipeline-tag and timing metadata callers need to distinguish how a
// result was produced.
type SearchReport struct {
	Results      []Result
	SearchPath   SearchPath
	QueryTimeMs  float64
	TotalTimeMs  float64
}

// Engine is the inverted-index retrieval engine. It holds only the
// FileStore used to read session content for Tier 3 and fallback scoring;
// the index itself is passed to each Search call (Maintainer owns writes).
type Engine struct {
	store workspace.FileStore
}

// NewEngine returns an Engine backed by store.
func NewEngine(store workspace.FileStore) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("index: store cannot be nil")
	}
	return &Engine{store: store}, nil
}

// Search runs the three-tier query pipeline against idx, falling back to a
// full scan. idx may be nil to force the fallback path (StateAbsent).
func (e *Engine) Search(ctx context.Context, idx *Index, query string, opts SearchOptions) (*SearchReport, error) {
	start := time.Now()
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}

	// Posting-list lookups are per distinct token, so a query repeating a
	// term gains nothing from looking it up twice.
	queryTokens := lo.Uniq(tokenize.Tokenize(query))

	if idx == nil {
		return e.fallbackOnly(ctx, nil, queryTokens, opts, start)
	}

	candidates := tier1Intersect(idx, queryTokens)
	if len(candidates) == 0 {
		return e.fallbackOnly(ctx, idx, queryTokens, opts, start)
	}

	coarse := tier2Coarse(idx, candidates, queryTokens, opts.CoarseRetain)

	tierStart := time.Now()
	matched, err := tier3Enhanced(ctx, e.store, idx, coarse, queryTokens, opts.TemporalFilter)
	if err != nil {
		return nil, fmt.Errorf("index: tier3: %w", err)
	}
	queryTimeMs := msSince(tierStart)

	results := toResults(idx, matched)
	if len(results) == 0 {
		return e.fallbackOnly(ctx, idx, queryTokens, opts, start)
	}

	searchPath := PathIndex
	if len(results) < opts.MaxResults {
		extra, err := e.supplementFromFallback(ctx, idx, queryTokens, opts, results)
		if err != nil {
			return nil, err
		}
		if len(extra) > 0 {
			results = append(results, extra...)
			searchPath = PathHybrid
		}
	}

	results = rankAndCap(results, opts.MaxResults, idx.dateOf)
	return &SearchReport{
		Results:     results,
		SearchPath:  searchPath,
		QueryTimeMs: queryTimeMs,
		TotalTimeMs: msSince(start),
	}, nil
}

// supplementFromFallback fills out a short index-path result set with a
// full scan over sessions not already represented, for the "hybrid" path.
func (e *Engine) supplementFromFallback(ctx context.Context, idx *Index, queryTokens []string, opts SearchOptions, have []Result) ([]Result, error) {
	seen := make(map[string]struct{}, len(have))
	for _, r := range have {
		seen[r.SessionID] = struct{}{}
	}

	var remaining []*Session
	for _, id := range idx.KnownSessions() {
		if _, ok := seen[id]; ok {
			continue
		}
		if s := idx.Session(id); s != nil {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		return nil, nil
	}

	matched, err := fullScan(ctx, e.store, remaining, queryTokens, opts.TemporalFilter)
	if err != nil {
		return nil, fmt.Errorf("index: hybrid supplement: %w", err)
	}
	return toResultsFromPaths(remaining, matched), nil
}

// fallbackOnly runs a pure full scan (StateAbsent, empty Tier 1 candidate
// set, or zero Tier 3 results).
func (e *Engine) fallbackOnly(ctx context.Context, idx *Index, queryTokens []string, opts SearchOptions, start time.Time) (*SearchReport, error) {
	sessions, err := e.knownSessions(ctx, idx)
	if err != nil {
		return nil, err
	}

	tierStart := time.Now()
	matched, err := fullScan(ctx, e.store, sessions, queryTokens, opts.TemporalFilter)
	if err != nil {
		return nil, fmt.Errorf("index: fallback: %w", err)
	}
	queryTimeMs := msSince(tierStart)

	results := toResultsFromPaths(sessions, matched)
	results = rankAndCap(results, opts.MaxResults, dateOfSessions(sessions))

	return &SearchReport{
		Results:     results,
		SearchPath:  PathFallback,
		QueryTimeMs: queryTimeMs,
		TotalTimeMs: msSince(start),
	}, nil
}

// knownSessions returns every session the (possibly nil/stale) index
// tracks. When idx is nil, the engine has no session registry to scan and
// returns an empty set — a caller relying purely on fallback must build an
// index first.
func (e *Engine) knownSessions(_ context.Context, idx *Index) ([]*Session, error) {
	if idx == nil {
		return nil, nil
	}
	ids := idx.KnownSessions()
	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		if s := idx.Session(id); s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func toResults(idx *Index, matched []EnhancedMatchResult) []Result {
	out := make([]Result, 0, len(matched))
	for _, m := range matched {
		if len(m.Hits) == 0 {
			continue
		}
		sess := idx.Session(m.SessionID)
		path := ""
		if sess != nil {
			path = sess.Path
		}
		sortHitsByScore(m.Hits)
		out = append(out, Result{SessionID: m.SessionID, Path: path, Hits: m.Hits, Score: m.MatchScore})
	}
	return out
}

func toResultsFromPaths(sessions []*Session, matched []EnhancedMatchResult) []Result {
	paths := make(map[string]string, len(sessions))
	for _, s := range sessions {
		if id, ok := workspace.SessionIDFromPath(s.Path); ok {
			paths[id] = s.Path
		}
	}
	out := make([]Result, 0, len(matched))
	for _, m := range matched {
		if len(m.Hits) == 0 {
			continue
		}
		sortHitsByScore(m.Hits)
		out = append(out, Result{SessionID: m.SessionID, Path: paths[m.SessionID], Hits: m.Hits, Score: m.MatchScore})
	}
	return out
}

// rankAndCap sorts results by score descending, ties broken by recency
// (newer first) via dateOf, then by session ID for determinism, then caps
// at maxResults — session ID stands in for posting rank once recency is
// exhausted, since posting order is not preserved this far downstream.
func rankAndCap(results []Result, maxResults int, dateOf func(string) string) []Result {
	if dateOf == nil {
		dateOf = func(string) string { return "" }
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		di, dj := dateOf(results[i].SessionID), dateOf(results[j].SessionID)
		if di != dj {
			return di > dj
		}
		return results[i].SessionID < results[j].SessionID
	})
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func dateOfSessions(sessions []*Session) func(string) string {
	byID := make(map[string]string, len(sessions))
	for _, s := range sessions {
		if id, ok := workspace.SessionIDFromPath(s.Path); ok {
			byID[id] = s.Date
		}
	}
	return func(id string) string { return byID[id] }
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
