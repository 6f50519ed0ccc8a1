// Package retrieval implements the Refs-First Orchestrator: the
// non-recursive and bounded-recursive searchRefs contract that sits above
// the Semantic Searcher and the inverted-index engine.
package retrieval

import (
	"context"

	"github.com/vriveras/refcore/refs"
)

// SemanticSearcher is the out-of-scope embedding/vector-search collaborator.
// The orchestrator treats it as opaque: a failing searcher is skipped, and
// the result is marked "disabled" only when every configured searcher
// failed, rather than failing the whole search.
type SemanticSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]refs.Ref, error)
}

// IndexSearcher is the subset of the inverted-index engine's Engine the
// orchestrator depends on, kept as an interface so tests can stub it
// without constructing a real on-disk index.
type IndexSearcher interface {
	SearchRefs(ctx context.Context, query string, maxResults int) ([]refs.Ref, error)
}
