// Package toolsurface exposes every tool-surface operation as a plain Go
// function over JSON-tagged structs, so both an MCP-style tool registry
// and the CLI can call the same entry points without duplicating the
// parameter/result shapes.
package toolsurface

import "github.com/vriveras/refcore/refs"

// Default parameter values applied when an operation's input omits them.
const (
	DefaultPreviewChars       = 140
	DefaultExpandDefaultLines = 60
	DefaultMaxRefs            = 2
	DefaultMaxChars           = 8000
)

// SnippetResult is one memory_search / rlm_search hit: a location plus its
// preview text under the legacy "snippet" field name.
type SnippetResult struct {
	Path      string  `json:"path"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
	Source    string  `json:"source,omitempty"`
}

// MemorySearchInput is memory_search's and rlm_search's parameter object.
type MemorySearchInput struct {
	Query      string  `json:"query"`
	MaxResults int     `json:"maxResults,omitempty"`
	MinScore   float64 `json:"minScore,omitempty"`
}

// MemorySearchOutput is memory_search's result shape.
type MemorySearchOutput struct {
	Results  []SnippetResult `json:"results"`
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Fallback bool            `json:"fallback,omitempty"`
}

// MemorySearchRefsInput is memory_search_refs's parameter object.
type MemorySearchRefsInput struct {
	Query        string                `json:"query"`
	MaxResults   int                   `json:"maxResults,omitempty"`
	MinScore     float64               `json:"minScore,omitempty"`
	PreviewChars int                   `json:"previewChars,omitempty"`
	Recursive    *refs.RecursiveConfig `json:"recursive,omitempty"`
}

// RecursiveOutput is memory_search_refs's recursive accounting.
type RecursiveOutput struct {
	Enabled            bool      `json:"enabled"`
	Budget             int       `json:"budget"`
	Hops               []HopOut  `json:"hops"`
	TotalExpandedChars int       `json:"totalExpandedChars"`
}

// HopOut is one recursive hop's accounting in the output shape.
type HopOut struct {
	Hop          int    `json:"hop"`
	Query        string `json:"query"`
	DerivedQuery string `json:"derivedQuery,omitempty"`
	NewRefs      int    `json:"newRefs"`
}

// MemorySearchRefsOutput is memory_search_refs's result shape.
type MemorySearchRefsOutput struct {
	Query     string           `json:"query"`
	Refs      []refs.Ref       `json:"refs"`
	Provider  string           `json:"provider"`
	Model     string           `json:"model"`
	Fallback  bool             `json:"fallback,omitempty"`
	Recursive *RecursiveOutput `json:"recursive,omitempty"`
}

// MemoryGetInput is memory_get's parameter object.
type MemoryGetInput struct {
	Path  string `json:"path"`
	From  int    `json:"from,omitempty"`
	Lines int    `json:"lines,omitempty"`
}

// MemoryGetOutput is memory_get's result shape.
type MemoryGetOutput struct {
	Path  string `json:"path"`
	From  int    `json:"from"`
	Lines int    `json:"lines"`
	Text  string `json:"text"`
}

// ExpandRefInput is one entry of memory_expand's/rlm_expand's refs array.
type ExpandRefInput struct {
	Path      string `json:"path"`
	StartLine int    `json:"startLine,omitempty"`
	EndLine   int    `json:"endLine,omitempty"`
	From      int    `json:"from,omitempty"`
	Lines     int    `json:"lines,omitempty"`
}

// MemoryExpandInput is memory_expand's/rlm_expand's parameter object.
type MemoryExpandInput struct {
	Refs         []ExpandRefInput `json:"refs"`
	DefaultLines int              `json:"defaultLines,omitempty"`
	MaxRefs      int              `json:"maxRefs,omitempty"`
	MaxChars     int              `json:"maxChars,omitempty"`
}

// ExpandResultOut is one memory_expand/rlm_expand output window.
type ExpandResultOut struct {
	Path  string `json:"path"`
	From  int    `json:"from"`
	Lines int    `json:"lines"`
	Text  string `json:"text"`
}

// ExpandBudgetOut echoes the budget memory_expand honoured.
type ExpandBudgetOut struct {
	MaxRefs      int `json:"maxRefs"`
	DefaultLines int `json:"defaultLines"`
	MaxChars     int `json:"maxChars"`
}

// ExpandFailureOut is a per-ref expansion failure; additive to the
// compatibility-sensitive output shape, since "sibling refs still succeed
// in batch operations" requires surfacing which ones did not.
type ExpandFailureOut struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// MemoryExpandOutput is memory_expand's result shape.
type MemoryExpandOutput struct {
	Results []ExpandResultOut  `json:"results"`
	Budget  ExpandBudgetOut    `json:"budget"`
	Errors  []ExpandFailureOut `json:"errors,omitempty"`
}

// RLMTimings is the rlm_* operations' latency breakdown.
type RLMTimings struct {
	QueryMs float64 `json:"queryMs"`
	TotalMs float64 `json:"totalMs"`
}

// RLMMeta is the rlm_* operations' pipeline accounting: which tier served
// the query, and how long it took.
type RLMMeta struct {
	Timings    RLMTimings `json:"timings"`
	SearchPath string     `json:"searchPath"`
}

// RLMSearchOutput is rlm_search's result shape.
type RLMSearchOutput struct {
	Results  []SnippetResult `json:"results"`
	Provider string          `json:"provider"`
	Model    string          `json:"model"`
	Meta     RLMMeta         `json:"meta"`
}

// RLMSearchRefsInput is rlm_search_refs's parameter object.
type RLMSearchRefsInput struct {
	Query        string `json:"query"`
	MaxResults   int    `json:"maxResults,omitempty"`
	PreviewChars int    `json:"previewChars,omitempty"`
}

// RLMSearchRefsOutput is rlm_search_refs's result shape.
type RLMSearchRefsOutput struct {
	Query    string     `json:"query"`
	Refs     []refs.Ref `json:"refs"`
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Meta     RLMMeta    `json:"meta"`
}
