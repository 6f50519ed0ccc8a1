package toolsurface

import (
	"context"
	"fmt"
	"time"

	"github.com/vriveras/refcore/index"
)

const rlmProvider = "rlm"

// RLMSearch implements rlm_search: a direct query against the
// inverted-index engine (bypassing the semantic searcher and recursive
// loop), surfacing which pipeline tier served the query.
func (s *Service) RLMSearch(ctx context.Context, in MemorySearchInput) (*RLMSearchOutput, error) {
	report, err := s.rlmQuery(ctx, in.Query, in.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("toolsurface: rlm_search: %w", err)
	}

	out := &RLMSearchOutput{Provider: rlmProvider, Model: s.Model, Meta: reportMeta(report)}
	for _, r := range index.ResultsToRefs(report.SearchReport.Results) {
		out.Results = append(out.Results, SnippetResult{
			Path: r.Path, StartLine: r.StartLine, EndLine: r.EndLine,
			Score: r.Score, Snippet: r.Preview, Source: string(r.Source),
		})
	}
	return out, nil
}

// RLMSearchRefs implements rlm_search_refs: the same direct index query,
// returned as refs with normalised previews.
func (s *Service) RLMSearchRefs(ctx context.Context, in RLMSearchRefsInput) (*RLMSearchRefsOutput, error) {
	report, err := s.rlmQuery(ctx, in.Query, in.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("toolsurface: rlm_search_refs: %w", err)
	}

	previewChars := in.PreviewChars
	if previewChars <= 0 {
		previewChars = DefaultPreviewChars
	}

	out := &RLMSearchRefsOutput{
		Query:    in.Query,
		Provider: rlmProvider,
		Model:    s.Model,
		Meta:     reportMeta(report),
	}
	for _, r := range index.ResultsToRefs(report.SearchReport.Results) {
		if len([]rune(r.Preview)) > previewChars {
			r.Preview = string([]rune(r.Preview)[:previewChars]) + "…"
		}
		out.Refs = append(out.Refs, r)
	}
	return out, nil
}

// RLMExpand implements rlm_expand: identical window expansion to
// memory_expand, kept as a separate entry point since rlm_* operations are
// a distinct provider surface from memory_*.
func (s *Service) RLMExpand(ctx context.Context, in MemoryExpandInput) (*MemoryExpandOutput, error) {
	out, err := s.MemoryExpand(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("toolsurface: rlm_expand: %w", err)
	}
	return out, nil
}

type rlmReport struct {
	SearchReport *index.SearchReport
	QueryMs      float64
	TotalMs      float64
}

func (s *Service) rlmQuery(ctx context.Context, query string, maxResults int) (*rlmReport, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.IndexEngine == nil {
		return nil, fmt.Errorf("toolsurface: index engine not configured")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	start := time.Now()
	report, err := s.IndexEngine.Search(ctx, s.Index, query, index.SearchOptions{MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	totalMs := float64(time.Since(start).Microseconds()) / 1000.0

	return &rlmReport{SearchReport: report, QueryMs: report.QueryTimeMs, TotalMs: totalMs}, nil
}

func reportMeta(r *rlmReport) RLMMeta {
	return RLMMeta{
		Timings:    RLMTimings{QueryMs: r.QueryMs, TotalMs: r.TotalMs},
		SearchPath: string(r.SearchReport.SearchPath),
	}
}
