package toolsurface

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

func writeSession(t *testing.T, root, id string, records []string) string {
	t.Helper()
	dir := filepath.Join(root, "sessions")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+".jsonl")
	data := ""
	for _, r := range records {
		data += r + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return "sessions/" + id + ".jsonl"
}

func rec(role, text, date string) string {
	return `{"role":"` + role + `","text":"` + text + `","date":"` + date + `"}`
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "memory"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "memory/notes.md"),
		[]byte("line one\nline two\nline three\nline four\nline five\n"), 0o644))

	p1 := writeSession(t, root, "s1", []string{
		rec("user", "what is the glicko rating system for chess", "2026-01-01"),
		rec("assistant", "glicko uses rating deviation and volatility", "2026-01-01"),
	})

	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	idx, err := index.BuildFull(context.Background(), store, []string{p1})
	require.NoError(t, err)

	engine, err := index.NewEngine(store)
	require.NoError(t, err)

	return &Service{
		Orchestrator: &retrieval.Orchestrator{
			Index: &retrieval.IndexEngineAdapter{Engine: engine, Index: idx},
			Store: store,
		},
		IndexEngine: engine,
		Index:       idx,
		Store:       store,
		Provider:    "refcore",
		Model:       "test-model",
	}
}

func TestMemorySearchReturnsSnippetShape(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.MemorySearch(context.Background(), MemorySearchInput{Query: "glicko rating"})
	require.NoError(t, err)
	require.Equal(t, "refcore", out.Provider)
	require.NotEmpty(t, out.Results)
	require.NotEmpty(t, out.Results[0].Snippet)
}

func TestMemorySearchRefsRunsPostHooksAndHonoursAugmentation(t *testing.T) {
	svc := newTestService(t)
	svc.PostSearchRefsHooks = HookChain{
		func(_ context.Context, hc *HookContext) error {
			hc.AugmentedRefs = []refs.Ref{{Path: "memory/notes.md", StartLine: 1, EndLine: 1, Score: 1, Preview: "augmented"}}
			return nil
		},
	}

	out, err := svc.MemorySearchRefs(context.Background(), MemorySearchRefsInput{Query: "glicko rating"})
	require.NoError(t, err)
	require.Len(t, out.Refs, 1)
	require.Equal(t, "augmented", out.Refs[0].Preview)
}

func TestMemoryGetReadsRequestedWindow(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.MemoryGet(context.Background(), MemoryGetInput{Path: "memory/notes.md", From: 2, Lines: 2})
	require.NoError(t, err)
	require.Equal(t, 2, out.From)
	require.Equal(t, "line two\nline three", out.Text)
}

func TestMemoryExpandToleratesPerRefFailures(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.MemoryExpand(context.Background(), MemoryExpandInput{
		Refs: []ExpandRefInput{
			{Path: "memory/notes.md", StartLine: 1, EndLine: 2},
			{Path: "memory/missing.md", StartLine: 1, EndLine: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.Len(t, out.Errors, 1)
	require.Equal(t, "memory/missing.md", out.Errors[0].Path)
}

func TestRLMSearchRefsSurfacesSearchPath(t *testing.T) {
	svc := newTestService(t)
	out, err := svc.RLMSearchRefs(context.Background(), RLMSearchRefsInput{Query: "glicko rating"})
	require.NoError(t, err)
	require.Equal(t, "rlm", out.Provider)
	require.NotEmpty(t, out.Meta.SearchPath)
	require.NotEmpty(t, out.Refs)
}

func TestHookChainJoinsErrorsWithoutStopping(t *testing.T) {
	var ran []int
	chain := HookChain{
		func(context.Context, *HookContext) error { ran = append(ran, 1); return errors.New("one") },
		func(context.Context, *HookContext) error { ran = append(ran, 2); return nil },
		func(context.Context, *HookContext) error { ran = append(ran, 3); return errors.New("three") },
	}
	err := chain.Run(context.Background(), &HookContext{})
	require.Error(t, err)
	require.Equal(t, []int{1, 2, 3}, ran)
	require.ErrorContains(t, err, "one")
	require.ErrorContains(t, err, "three")
}
