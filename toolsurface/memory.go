package toolsurface

import (
	"context"
	"fmt"

	"github.com/vriveras/refcore/expand"
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
)

// MemorySearch implements memory_search: a snippet-heavy search that
// returns the legacy {path,startLine,endLine,score,snippet,source?} shape.
func (s *Service) MemorySearch(ctx context.Context, in MemorySearchInput) (*MemorySearchOutput, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Orchestrator == nil {
		return nil, fmt.Errorf("toolsurface: orchestrator not configured")
	}

	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	result, err := s.Orchestrator.SearchRefs(ctx, in.Query, retrieval.Options{
		MaxResults:   maxResults,
		MinScore:     in.MinScore,
		PreviewChars: DefaultPreviewChars,
	})
	if err != nil {
		return nil, fmt.Errorf("toolsurface: memory_search: %w", err)
	}

	out := &MemorySearchOutput{
		Provider: s.Provider,
		Model:    s.Model,
		Fallback: result.Disabled,
	}
	for _, r := range result.Refs {
		out.Results = append(out.Results, SnippetResult{
			Path: r.Path, StartLine: r.StartLine, EndLine: r.EndLine,
			Score: r.Score, Snippet: r.Preview, Source: string(r.Source),
		})
	}
	return out, nil
}

// MemorySearchRefs implements memory_search_refs: the full refs-first
// search, optionally recursive, with the post-event hook chain applied.
func (s *Service) MemorySearchRefs(ctx context.Context, in MemorySearchRefsInput) (*MemorySearchRefsOutput, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Orchestrator == nil {
		return nil, fmt.Errorf("toolsurface: orchestrator not configured")
	}

	previewChars := in.PreviewChars
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}
	maxResults := in.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	result, err := s.Orchestrator.SearchRefs(ctx, in.Query, retrieval.Options{
		MaxResults:   maxResults,
		MinScore:     in.MinScore,
		PreviewChars: previewChars,
		Recursive:    in.Recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("toolsurface: memory_search_refs: %w", err)
	}

	out := &MemorySearchRefsOutput{
		Query:    result.Query,
		Refs:     result.Refs,
		Provider: s.Provider,
		Model:    s.Model,
		Fallback: result.Disabled,
	}
	if result.Recursive != nil {
		out.Recursive = &RecursiveOutput{
			Enabled:            in.Recursive != nil && in.Recursive.Enabled,
			Budget:             result.Recursive.Budget,
			TotalExpandedChars: result.Recursive.TotalExpandedChars,
		}
		for _, h := range result.Recursive.Hops {
			out.Recursive.Hops = append(out.Recursive.Hops, HopOut{
				Hop: h.Hop, Query: h.Query, DerivedQuery: h.DerivedQuery, NewRefs: h.NewRefs,
			})
		}
	}

	hc := &HookContext{Event: EventMemorySearchRefsPost, Output: out}
	if err := s.PostSearchRefsHooks.Run(ctx, hc); err != nil {
		return nil, fmt.Errorf("toolsurface: memory_search_refs post hooks: %w", err)
	}
	if hc.AugmentedRefs != nil {
		out.Refs = hc.AugmentedRefs
	}
	return out, nil
}

// MemoryGet implements memory_get: a single-window read with no batching
// or failure tolerance (a malformed request is just an error).
func (s *Service) MemoryGet(ctx context.Context, in MemoryGetInput) (*MemoryGetOutput, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	result, err := expand.Expand(ctx, s.Store, []expand.Request{{
		Ref:   refs.Ref{Path: in.Path},
		From:  in.From,
		Lines: in.Lines,
	}}, expand.Config{
		DefaultLines: DefaultExpandDefaultLines,
		MaxRefs:      1,
		MaxChars:     0,
	})
	if err != nil {
		return nil, fmt.Errorf("toolsurface: memory_get: %w", err)
	}
	if len(result.Failures) > 0 {
		return nil, fmt.Errorf("toolsurface: memory_get %s: %s", in.Path, result.Failures[0].Error)
	}
	if len(result.Windows) == 0 {
		return nil, fmt.Errorf("toolsurface: memory_get %s: produced no window", in.Path)
	}

	w := result.Windows[0]
	return &MemoryGetOutput{Path: w.Path, From: w.From, Lines: w.Lines, Text: w.Text}, nil
}

// MemoryExpand implements memory_expand: batch window expansion with
// per-ref failure tolerance.
func (s *Service) MemoryExpand(ctx context.Context, in MemoryExpandInput) (*MemoryExpandOutput, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	defaultLines := in.DefaultLines
	if defaultLines <= 0 {
		defaultLines = DefaultExpandDefaultLines
	}
	maxRefs := in.MaxRefs
	if maxRefs <= 0 {
		maxRefs = DefaultMaxRefs
	}
	maxChars := in.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	requests := make([]expand.Request, 0, len(in.Refs))
	for _, r := range in.Refs {
		requests = append(requests, expand.Request{
			Ref:   refs.Ref{Path: r.Path, StartLine: r.StartLine, EndLine: r.EndLine},
			From:  r.From,
			Lines: r.Lines,
		})
	}

	result, err := expand.Expand(ctx, s.Store, requests, expand.Config{
		DefaultLines: defaultLines,
		MaxRefs:      maxRefs,
		MaxChars:     maxChars,
	})
	if err != nil {
		return nil, fmt.Errorf("toolsurface: memory_expand: %w", err)
	}

	out := &MemoryExpandOutput{
		Budget: ExpandBudgetOut{MaxRefs: maxRefs, DefaultLines: defaultLines, MaxChars: maxChars},
	}
	for _, w := range result.Windows {
		out.Results = append(out.Results, ExpandResultOut{Path: w.Path, From: w.From, Lines: w.Lines, Text: w.Text})
	}
	for _, f := range result.Failures {
		out.Errors = append(out.Errors, ExpandFailureOut{Path: f.Path, Error: f.Error})
	}

	hc := &HookContext{Event: EventMemoryExpandPost, Output: out}
	if err := s.PostExpandHooks.Run(ctx, hc); err != nil {
		return nil, fmt.Errorf("toolsurface: memory_expand post hooks: %w", err)
	}
	if hc.AugmentedExpanded != nil {
		out.Results = hc.AugmentedExpanded
	}
	return out, nil
}
