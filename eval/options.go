package eval

import "github.com/vriveras/refcore/refs"

// Options configures one RunSuite call: result shaping plus the per-mode
// knobs threaded into the Orchestrator and Expand Engine calls each mode
// issues.
type Options struct {
	// Label identifies this suite in a checkpointed Report; --resume skips
	// any suite whose Label is already present.
	Label string `json:"label"`

	MaxResults   int `json:"maxResults"`
	PreviewChars int `json:"previewChars"`

	ExpandDefaultLines  int `json:"expandDefaultLines"`
	ExpandMaxRefs       int `json:"expandMaxRefs"`
	ExpandMaxChars      int `json:"expandMaxChars"`
	ExpandMaxTotalChars int `json:"expandMaxTotalChars"`

	// Recursive configures the recursiveRefs mode. Running ModeRecursive
	// without it set is a case-level error, not a suite-level one.
	Recursive *refs.RecursiveConfig `json:"recursive,omitempty"`

	// ModeFuncs overrides the default implementation for any Mode key it
	// contains; modes not present here fall back to the built-in
	// implementation. This is what makes modes pluggable. Not serialisable
	// and intentionally excluded from the report.
	ModeFuncs map[Mode]ModeFunc `json:"-"`

	// CaseConcurrency bounds how many cases run concurrently within one
	// suite; zero uses DefaultCaseConcurrency.
	CaseConcurrency int `json:"caseConcurrency"`
}

// DefaultCaseConcurrency bounds per-suite case fan-out when Options leaves
// CaseConcurrency unset.
const DefaultCaseConcurrency = 8

func (o Options) withDefaults() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = 10
	}
	if o.PreviewChars <= 0 {
		o.PreviewChars = 140
	}
	if o.ExpandDefaultLines <= 0 {
		o.ExpandDefaultLines = 60
	}
	if o.ExpandMaxRefs <= 0 {
		o.ExpandMaxRefs = 2
	}
	if o.ExpandMaxChars <= 0 {
		o.ExpandMaxChars = 8000
	}
	if o.ExpandMaxTotalChars <= 0 {
		o.ExpandMaxTotalChars = o.ExpandMaxChars * o.ExpandMaxRefs
	}
	if o.CaseConcurrency <= 0 {
		o.CaseConcurrency = DefaultCaseConcurrency
	}
	return o
}
