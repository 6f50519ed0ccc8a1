package toolsurface

import (
	"errors"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

// Service wires the tool-surface operations to their underlying
// components: the Orchestrator (memory_*, full semantic+index+recursive
// stack) and a direct index.Engine (rlm_*, the inverted-index engine
// alone, surfacing which tier served the query).
type Service struct {
	Orchestrator *retrieval.Orchestrator
	IndexEngine  *index.Engine
	Index        *index.Index // read-only snapshot rlm_* queries against
	Store        workspace.FileStore

	Provider string
	Model    string

	PostSearchRefsHooks HookChain
	PostExpandHooks     HookChain
}

func (s *Service) validate() error {
	if s == nil {
		return errors.New("toolsurface: service cannot be nil")
	}
	if s.Store == nil {
		return errors.New("toolsurface: store is required")
	}
	return nil
}
