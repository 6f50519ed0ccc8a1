package toolsurface

import (
	"context"
	"errors"

	"github.com/vriveras/refcore/refs"
)

// Hook event names fired after refs/expand operations complete.
const (
	EventMemorySearchRefsPost = "tool:memory_search_refs:post"
	EventMemoryExpandPost     = "tool:memory_expand:post"
)

// HookContext carries one tool-surface operation's full output to its
// registered post-event handlers. A handler sets AugmentedRefs or
// AugmentedExpanded to have the core return that in place of its own
// result — this is how keyword/RLM augmentation is realised.
type HookContext struct {
	Event  string
	Output any

	AugmentedRefs     []refs.Ref
	AugmentedExpanded []ExpandResultOut
}

// HookFunc is one post-event handler.
type HookFunc func(ctx context.Context, hc *HookContext) error

// HookChain runs every registered HookFunc in order, accumulating (not
// stopping on) errors: the core awaits all handlers before assembling its
// final result.
type HookChain []HookFunc

// Run invokes every hook in registration order against hc, joining any
// errors they return.
func (c HookChain) Run(ctx context.Context, hc *HookContext) error {
	var errs []error
	for _, hook := range c {
		if err := hook(ctx, hc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
