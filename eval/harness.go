package eval

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

const topRefsPerCase = 3

// RunSuite implements the harness contract: runSuite(groundTruth, modes,
// options) -> report. It runs the cases concurrently (bounded by
// Options.CaseConcurrency), each case's requested modes in turn, and
// returns one Suite covering the whole ground truth.
func RunSuite(ctx context.Context, gt *GroundTruth, modes []Mode, orch *retrieval.Orchestrator, store workspace.FileStore, opts Options) (*Suite, error) {
	opts = opts.withDefaults()

	results := make([]CaseResult, len(gt.Cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.CaseConcurrency)

	var mu sync.Mutex
	for i, c := range gt.Cases {
		g.Go(func() error {
			cr := runCase(gctx, c, modes, orch, store, opts)
			mu.Lock()
			results[i] = cr
			mu.Unlock()
			return nil
		})
	}
	// A single case's exception is a case-level failure, not a
	// suite-level one: runCase never returns an error to g.Go, so Wait
	// only ever surfaces a context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Suite{
		RunID:      uuid.NewString(),
		Label:      opts.Label,
		Cases:      results,
		PassRate:   passRate(results),
		Aggregates: computeAggregates(results),
	}, nil
}

func runCase(ctx context.Context, c GroundTruthCase, modes []Mode, orch *retrieval.Orchestrator, store workspace.FileStore, opts Options) CaseResult {
	cr := CaseResult{
		ID:       c.ID,
		Query:    c.Query,
		Sizes:    map[Mode]Sizes{},
		OKByMode: map[Mode]bool{},
	}

	var total time.Duration
	for _, m := range modes {
		fn, ok := resolveMode(m, opts)
		if !ok {
			continue
		}

		start := time.Now()
		res, err := fn(ctx, orch, store, c.Query, opts)
		elapsed := time.Since(start)
		total += elapsed

		if err != nil {
			if cr.Errors == nil {
				cr.Errors = map[Mode]string{}
			}
			cr.Errors[m] = err.Error()
			continue
		}

		cr.Sizes[m] = Sizes{Chars: len(res.Text), Tokens: tokensOf(len(res.Text))}
		cr.OKByMode[m] = anyContainsFold(res.Text, c.Expect.AnyContains)
		recordLatency(&cr.LatencyMs, m, msOf(elapsed))

		switch m {
		case ModeRefs, ModeBaseline:
			if len(res.Refs) > cr.Counts.RefsReturned {
				cr.Counts.RefsReturned = len(res.Refs)
			}
			if len(cr.TopRefs) == 0 {
				cr.TopRefs = topN(res.Refs, topRefsPerCase)
			}
		case ModeExpand, ModeRecursive:
			cr.Counts.ExpandedRequested += res.ExpandedRequested
			if len(cr.TopRefs) == 0 {
				cr.TopRefs = topN(res.Refs, topRefsPerCase)
			}
		}
		if m == ModeRecursive {
			cr.RecursiveMeta = res.Recursive
		}
	}

	cr.LatencyMs.Total = msOf(total)
	cr.OK = anyOK(cr.OKByMode)
	return cr
}

func recordLatency(l *LatencyMs, m Mode, ms float64) {
	switch m {
	case ModeBaseline:
		l.Baseline = ms
	case ModeRefs:
		l.Refs = ms
	case ModeExpand:
		l.Expand = ms
	case ModeRecursive:
		l.RecursiveRefs = ms
	}
}

func msOf(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

func tokensOf(chars int) int {
	if chars <= 0 {
		return 0
	}
	return (chars + 3) / 4 // ceil(chars/4)
}

func anyContainsFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func anyOK(byMode map[Mode]bool) bool {
	for _, ok := range byMode {
		if ok {
			return true
		}
	}
	return false
}

func topN[T any](in []T, n int) []T {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func passRate(results []CaseResult) float64 {
	if len(results) == 0 {
		return 0
	}
	passed := 0
	for _, r := range results {
		if r.OK {
			passed++
		}
	}
	return float64(passed) / float64(len(results))
}
