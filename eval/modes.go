package eval

import (
	"context"
	"errors"
	"strings"

	"github.com/vriveras/refcore/expand"
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

// ModeResult is one mode's contribution to a case outcome: the textual
// evidence checked against the case's expectation, plus whatever counts
// and metadata the mode produced.
type ModeResult struct {
	Text              string
	Refs              []refs.Ref
	ExpandedRequested int
	Recursive         *retrieval.RecursiveMeta
}

// ModeFunc runs one retrieval strategy for one query against the given
// Orchestrator/FileStore.
type ModeFunc func(ctx context.Context, orch *retrieval.Orchestrator, store workspace.FileStore, query string, opts Options) (ModeResult, error)

// ErrRecursiveNotConfigured is returned by the recursiveRefs mode when
// Options.Recursive is nil: a case-level error, never a suite-level one.
var ErrRecursiveNotConfigured = errors.New("eval: recursiveRefs mode requires Options.Recursive")

var defaultModeFuncs = map[Mode]ModeFunc{
	ModeBaseline:  runBaseline,
	ModeRefs:      runRefs,
	ModeExpand:    runExpand,
	ModeRecursive: runRecursive,
}

// resolveMode returns the effective implementation for m: opts.ModeFuncs's
// entry if present, else the built-in.
func resolveMode(m Mode, opts Options) (ModeFunc, bool) {
	if fn, ok := opts.ModeFuncs[m]; ok {
		return fn, true
	}
	fn, ok := defaultModeFuncs[m]
	return fn, ok
}

// runBaseline models the snippet-heavy legacy path: it leans entirely on
// each hit's preview text as the evidence a case is checked against, with
// no follow-up expansion.
func runBaseline(ctx context.Context, orch *retrieval.Orchestrator, _ workspace.FileStore, query string, opts Options) (ModeResult, error) {
	res, err := orch.SearchRefs(ctx, query, retrieval.Options{
		MaxResults:   opts.MaxResults,
		PreviewChars: opts.PreviewChars,
	})
	if err != nil {
		return ModeResult{}, err
	}
	if res.Disabled {
		return ModeResult{}, errors.New(res.Error)
	}
	return ModeResult{Text: joinPreviews(res.Refs), Refs: res.Refs}, nil
}

// runRefs is the non-recursive refs-first path: identical search, kept
// distinct from baseline so the harness can compare a pointer-first
// workflow's evidence and timing against the snippet-heavy one.
func runRefs(ctx context.Context, orch *retrieval.Orchestrator, _ workspace.FileStore, query string, opts Options) (ModeResult, error) {
	res, err := orch.SearchRefs(ctx, query, retrieval.Options{
		MaxResults:   opts.MaxResults,
		PreviewChars: opts.PreviewChars,
	})
	if err != nil {
		return ModeResult{}, err
	}
	if res.Disabled {
		return ModeResult{}, errors.New(res.Error)
	}
	return ModeResult{Text: joinPreviews(res.Refs), Refs: res.Refs}, nil
}

// runExpand searches, then expands the top ExpandMaxRefs refs into their
// full windows, using the expanded text as evidence.
func runExpand(ctx context.Context, orch *retrieval.Orchestrator, store workspace.FileStore, query string, opts Options) (ModeResult, error) {
	res, err := orch.SearchRefs(ctx, query, retrieval.Options{
		MaxResults:   opts.MaxResults,
		PreviewChars: opts.PreviewChars,
	})
	if err != nil {
		return ModeResult{}, err
	}
	if res.Disabled {
		return ModeResult{}, errors.New(res.Error)
	}

	text, requested, err := expandTop(ctx, store, res.Refs, opts)
	if err != nil {
		return ModeResult{}, err
	}
	return ModeResult{Text: text, Refs: res.Refs, ExpandedRequested: requested}, nil
}

// runRecursive runs the bounded recursive loop, then expands its final top
// refs the same way runExpand does so the mode has textual evidence to
// check a case's expectation against.
func runRecursive(ctx context.Context, orch *retrieval.Orchestrator, store workspace.FileStore, query string, opts Options) (ModeResult, error) {
	if opts.Recursive == nil {
		return ModeResult{}, ErrRecursiveNotConfigured
	}

	res, err := orch.SearchRefs(ctx, query, retrieval.Options{
		MaxResults:   opts.MaxResults,
		PreviewChars: opts.PreviewChars,
		Recursive:    opts.Recursive,
	})
	if err != nil {
		return ModeResult{}, err
	}
	if res.Disabled {
		return ModeResult{}, errors.New(res.Error)
	}

	text, requested, err := expandTop(ctx, store, res.Refs, opts)
	if err != nil {
		return ModeResult{}, err
	}
	return ModeResult{Text: text, Refs: res.Refs, ExpandedRequested: requested, Recursive: res.Recursive}, nil
}

func expandTop(ctx context.Context, store workspace.FileStore, candidates []refs.Ref, opts Options) (string, int, error) {
	top := candidates
	if len(top) > opts.ExpandMaxRefs {
		top = top[:opts.ExpandMaxRefs]
	}

	requests := make([]expand.Request, 0, len(top))
	for _, r := range top {
		requests = append(requests, expand.Request{Ref: r})
	}

	result, err := expand.Expand(ctx, store, requests, expand.Config{
		DefaultLines:  opts.ExpandDefaultLines,
		MaxRefs:       opts.ExpandMaxRefs,
		MaxChars:      opts.ExpandMaxChars,
		MaxTotalChars: opts.ExpandMaxTotalChars,
	})
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	for _, w := range result.Windows {
		b.WriteString(w.Text)
		b.WriteString("\n")
	}
	return b.String(), len(requests), nil
}

func joinPreviews(in []refs.Ref) string {
	var b strings.Builder
	for _, r := range in {
		b.WriteString(r.Preview)
		b.WriteString("\n")
	}
	return b.String()
}
