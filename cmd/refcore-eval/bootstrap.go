package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/maintainer"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

// bootstrapOrchestrator builds a FileStore rooted at workspaceRoot, rebuilds
// the inverted index from every sessions/*.jsonl file it finds (the same
// full-rebuild path the periodic stale-index sweep uses), and wires an
// index-only Orchestrator over it. The harness exercises the retrieval core
// directly, so no SemanticSearcher is wired here; runs against a workspace
// that also has one configured would exercise hybrid scoring too, but that
// adapter is an external collaborator the CLI has no opinion on.
func bootstrapOrchestrator(ctx context.Context, workspaceRoot, indexPath string) (*retrieval.Orchestrator, workspace.FileStore, error) {
	store, err := workspace.NewLocalStore(workspaceRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("refcore-eval: open workspace %s: %w", workspaceRoot, err)
	}

	sessionPaths, err := discoverSessionPaths(workspaceRoot)
	if err != nil {
		return nil, nil, err
	}

	m, err := maintainer.New(&maintainer.Config{Store: store, IndexPath: indexPath})
	if err != nil {
		return nil, nil, fmt.Errorf("refcore-eval: new maintainer: %w", err)
	}
	if err := m.Rebuild(ctx, sessionPaths); err != nil {
		return nil, nil, fmt.Errorf("refcore-eval: rebuild index: %w", err)
	}

	idx, err := index.Load(indexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("refcore-eval: load index: %w", err)
	}
	engine, err := index.NewEngine(store)
	if err != nil {
		return nil, nil, fmt.Errorf("refcore-eval: new engine: %w", err)
	}

	orch := &retrieval.Orchestrator{
		Index:    &retrieval.IndexEngineAdapter{Engine: engine, Index: idx},
		Store:    store,
		Provider: "refcore-eval",
	}
	return orch, store, nil
}

// discoverSessionPaths lists every "sessions/<id>.jsonl" file under root,
// sorted for a deterministic rebuild order.
func discoverSessionPaths(root string) ([]string, error) {
	dir := filepath.Join(root, "sessions")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("refcore-eval: list sessions dir %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		paths = append(paths, "sessions/"+e.Name())
	}
	sort.Strings(paths)
	return paths, nil
}
