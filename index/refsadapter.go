package index

import "github.com/vriveras/refcore/refs"

// ResultsToRefs flattens a Search call's per-session Results into
// individual line-level Refs, one per matched line, for the orchestrator
// to merge, filter, and expand.
func ResultsToRefs(results []Result) []refs.Ref {
	out := make([]refs.Ref, 0, len(results))
	for _, r := range results {
		for _, hit := range r.Hits {
			out = append(out, refs.Ref{
				Path:      r.Path,
				StartLine: hit.Line,
				EndLine:   hit.Line,
				Score:     hit.Score,
				Source:    refs.SourceSessions,
				Preview:   hit.Text,
				SessionID: r.SessionID,
			})
		}
	}
	return out
}
