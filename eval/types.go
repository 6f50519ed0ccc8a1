package eval

import (
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
)

// Mode names one of the harness's pluggable retrieval strategies.
type Mode string

const (
	ModeBaseline  Mode = "baseline"
	ModeRefs      Mode = "refs"
	ModeExpand    Mode = "expand"
	ModeRecursive Mode = "recursiveRefs"
)

// Sizes is the chars/tokens accounting for one mode's textual output.
// tokens is a stable proxy (ceil(chars/4)); exact tokenisation is out of
// scope.
type Sizes struct {
	Chars  int `json:"chars"`
	Tokens int `json:"tokens"`
}

// Counts is the per-case ref accounting.
type Counts struct {
	RefsReturned      int `json:"refsReturned"`
	ExpandedRequested int `json:"expandedRequested"`
}

// LatencyMs is the per-mode timing breakdown for one case, plus Total
// across every mode that ran.
type LatencyMs struct {
	Baseline      float64 `json:"baseline,omitempty"`
	Refs          float64 `json:"refs,omitempty"`
	Expand        float64 `json:"expand,omitempty"`
	RecursiveRefs float64 `json:"recursiveRefs,omitempty"`
	Total         float64 `json:"total"`
}

// CaseResult is one ground-truth case's full outcome across every mode the
// suite ran.
type CaseResult struct {
	ID            string                  `json:"id"`
	Query         string                  `json:"query"`
	Sizes         map[Mode]Sizes          `json:"sizes"`
	LatencyMs     LatencyMs               `json:"latencyMs"`
	Counts        Counts                  `json:"counts"`
	OK            bool                    `json:"ok"`
	OKByMode      map[Mode]bool           `json:"okByMode"`
	TopRefs       []refs.Ref              `json:"topRefs,omitempty"`
	RecursiveMeta *retrieval.RecursiveMeta `json:"recursiveMeta,omitempty"`
	Errors        map[Mode]string         `json:"errors,omitempty"`
}

// Suite is one runSuite call's full result: every case outcome plus the
// aggregates computed over them.
type Suite struct {
	RunID      string               `json:"runID"`
	Label      string               `json:"label"`
	Cases      []CaseResult         `json:"cases"`
	PassRate   float64              `json:"passRate"`
	Aggregates map[string]Aggregate `json:"aggregates"`
}
