package retrieval

import (
	"context"
	"fmt"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/refs"
)

// IndexEngineAdapter adapts an index.Engine (plus the index snapshot it
// queries) to the IndexSearcher interface the orchestrator depends on.
type IndexEngineAdapter struct {
	Engine *index.Engine
	Index  *index.Index // may be nil to force the fallback path
}

// SearchRefs runs the three-tier pipeline and flattens its per-session hits
// into line-level refs.
func (a *IndexEngineAdapter) SearchRefs(ctx context.Context, query string, maxResults int) ([]refs.Ref, error) {
	if a.Engine == nil {
		return nil, fmt.Errorf("retrieval: index engine not configured")
	}
	report, err := a.Engine.Search(ctx, a.Index, query, index.SearchOptions{MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	return index.ResultsToRefs(report.Results), nil
}
