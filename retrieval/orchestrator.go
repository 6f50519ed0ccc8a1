package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/vriveras/refcore/expand"
	"github.com/vriveras/refcore/logging"
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/safety"
	"github.com/vriveras/refcore/workspace"
)

// Options configures one searchRefs call.
type Options struct {
	MaxResults   int
	MinScore     float64
	PreviewChars int
	Recursive    *refs.RecursiveConfig
}

// HopInfo is one hop's accounting, surfaced in Result.Recursive.Hops.
type HopInfo struct {
	Hop          int    `json:"hop"`
	Query        string `json:"query"`
	DerivedQuery string `json:"derivedQuery,omitempty"`
	NewRefs      int    `json:"newRefs"`
}

// RecursiveMeta is the recursive path's contribution to searchRefs's return
// value.
type RecursiveMeta struct {
	Budget             int       `json:"budget"`
	Hops               []HopInfo `json:"hops"`
	TotalExpandedChars int       `json:"totalExpandedChars"`
}

// Result is searchRefs's full return value.
type Result struct {
	Query     string         `json:"query"`
	Refs      []refs.Ref     `json:"refs"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	Disabled  bool           `json:"disabled,omitempty"`
	Error     string         `json:"error,omitempty"`
	Recursive *RecursiveMeta `json:"recursive,omitempty"`
}

// Orchestrator implements searchRefs: the non-recursive path over the
// Semantic Searcher and/or the inverted-index engine, and the bounded
// recursive loop above it.
type Orchestrator struct {
	Semantic SemanticSearcher // may be nil: index-only deployments skip it
	Index    IndexSearcher    // may be nil: semantic-only deployments skip it
	Store    workspace.FileStore
	Provider string
	Model    string
	Logger   logging.Logger
}

// SearchRefs runs the non-recursive path, then the recursive loop if
// opts.Recursive is enabled.
func (o *Orchestrator) SearchRefs(ctx context.Context, query string, opts Options) (*Result, error) {
	logger := o.logger()

	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}
	if opts.PreviewChars <= 0 {
		opts.PreviewChars = 200
	}

	recursiveEnabled := opts.Recursive != nil && opts.Recursive.Enabled && opts.Recursive.MaxHops > 0

	hop0MaxResults := opts.MaxResults
	if recursiveEnabled && opts.Recursive.MaxRefsPerHop > 0 {
		hop0MaxResults = opts.Recursive.MaxRefsPerHop
	}

	initial, disabled, searchErr := o.searchOnce(ctx, query, hop0MaxResults)
	if disabled {
		return &Result{Query: query, Provider: o.Provider, Model: o.Model, Disabled: true, Error: searchErr}, nil
	}

	result := &Result{
		Query:    query,
		Refs:     filterAndRank(initial, opts),
		Provider: o.Provider,
		Model:    o.Model,
	}

	if !recursiveEnabled {
		return result, nil
	}
	if o.Store == nil {
		logger.Warn("retrieval: recursive search requested but no FileStore configured, skipping recursion")
		return result, nil
	}

	return o.runRecursive(ctx, query, opts, result)
}

func (o *Orchestrator) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop{}
	}
	return o.Logger
}

// searchOnce invokes whichever searchers are configured and merges their
// raw refs. It returns (refs, disabled, errorString); disabled is set only
// when every configured searcher failed.
func (o *Orchestrator) searchOnce(ctx context.Context, query string, maxResults int) ([]refs.Ref, bool, string) {
	var all []refs.Ref
	var errs []string
	attempted := 0

	if o.Semantic != nil {
		attempted++
		hits, err := o.Semantic.Search(ctx, query, maxResults)
		if err != nil {
			errs = append(errs, fmt.Sprintf("semantic searcher: %v", err))
		} else {
			all = append(all, hits...)
		}
	}

	if o.Index != nil {
		attempted++
		hits, err := o.Index.SearchRefs(ctx, query, maxResults)
		if err != nil {
			errs = append(errs, fmt.Sprintf("index searcher: %v", err))
		} else {
			all = append(all, hits...)
		}
	}

	if attempted == 0 {
		return nil, true, "no searcher configured"
	}
	if len(errs) == attempted {
		return nil, true, strings.Join(errs, "; ")
	}
	return all, false, ""
}

// filterAndRank normalises previews, drops blob-unsafe refs, applies
// MinScore, and sorts by score descending.
func filterAndRank(in []refs.Ref, opts Options) []refs.Ref {
	normalized := lo.Map(in, func(r refs.Ref, _ int) refs.Ref {
		r.Preview = normalizePreview(r.Preview, opts.PreviewChars)
		return r
	})
	out := lo.Filter(normalized, func(r refs.Ref, _ int) bool {
		return !safety.IsBlobPreview(r.Preview) && r.Score >= opts.MinScore
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if opts.MaxResults > 0 && len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out
}

// runRecursive runs the bounded fixed-point recursive loop.
func (o *Orchestrator) runRecursive(ctx context.Context, originalQuery string, opts Options, hop0 *Result) (*Result, error) {
	cfg := opts.Recursive
	logger := o.logger()

	acc := newRefAccumulator()
	acc.merge(hop0.Refs, 0)

	meta := &RecursiveMeta{Budget: cfg.MaxHops}
	meta.Hops = append(meta.Hops, HopInfo{Hop: 0, Query: originalQuery, NewRefs: len(hop0.Refs)})

	hopMaxResults := opts.MaxResults
	if cfg.MaxRefsPerHop > 0 {
		hopMaxResults = cfg.MaxRefsPerHop
	}

	currentQuery := originalQuery
	for h := 0; h < cfg.MaxHops; h++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		topRefs := acc.topByScore(cfg.ExpandTopK)
		expandReqs := make([]expand.Request, 0, len(topRefs))
		for _, r := range topRefs {
			expandReqs = append(expandReqs, expand.Request{Ref: r})
		}

		remaining := cfg.MaxTotalExpandedChars - meta.TotalExpandedChars
		if remaining < 0 {
			remaining = 0
		}
		expResult, err := expand.Expand(ctx, o.Store, expandReqs, expand.Config{
			DefaultLines:  cfg.DefaultLines,
			MaxRefs:       len(expandReqs) + 1,
			MaxChars:      cfg.MaxCharsPerRef,
			MaxTotalChars: remaining,
		})
		if err != nil {
			logger.Warn("retrieval: hop %d expand failed: %v; merging without new derivation", h+1, err)
			expResult = &expand.Result{}
		}
		for _, f := range expResult.Failures {
			logger.Debug("retrieval: hop %d expand failure for %s: %s", h+1, f.Path, f.Error)
		}
		meta.TotalExpandedChars += expResult.CharsUsed

		var expandedText strings.Builder
		for _, w := range expResult.Windows {
			expandedText.WriteString(w.Text)
			expandedText.WriteString("\n")
		}

		derived := deriveQuery(expandedText.String(), cfg.DerivedQueryMaxTerms)

		hopQuery := derivedNextQuery(currentQuery, derived)
		hits, disabled, searchErr := o.searchOnce(ctx, hopQuery, hopMaxResults)
		if disabled {
			logger.Warn("retrieval: hop %d search disabled: %s", h+1, searchErr)
			hits = nil
		}
		newRefs := filterAndRank(hits, opts)
		addedCount := acc.merge(newRefs, h+1)

		meta.Hops = append(meta.Hops, HopInfo{
			Hop:          h + 1,
			Query:        currentQuery,
			DerivedQuery: derived,
			NewRefs:      addedCount,
		})

		if cfg.EarlyStop && addedCount == 0 {
			break
		}
		if derived == "" {
			break
		}
		currentQuery = derivedNextQuery(currentQuery, derived)
	}

	result := &Result{
		Query:     originalQuery,
		Refs:      acc.sortedByScore(),
		Provider:  o.Provider,
		Model:     o.Model,
		Recursive: meta,
	}
	return result, nil
}

func derivedNextQuery(query, derived string) string {
	if derived == "" {
		return query
	}
	return query + " " + derived
}
