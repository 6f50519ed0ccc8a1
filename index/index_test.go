package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/workspace"
)

func writeSession(t *testing.T, root, id string, lines []string) string {
	t.Helper()
	dir := filepath.Join(root, "sessions")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, id+".jsonl")
	data := ""
	for _, l := range lines {
		data += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return "sessions/" + id + ".jsonl"
}

func rec(role, text, date string) string {
	return `{"role":"` + role + `","text":"` + text + `","date":"` + date + `"}`
}

func TestBuildFullAndSearchTierOne(t *testing.T) {
	root := t.TempDir()
	p1 := writeSession(t, root, "s1", []string{
		rec("user", "what is the glicko rating system for chess", "2026-01-01"),
		rec("assistant", "glicko uses rating deviation and volatility", "2026-01-01"),
	})
	p2 := writeSession(t, root, "s2", []string{
		rec("user", "how do I bake sourdough bread at home", "2026-02-01"),
	})

	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	idx, err := BuildFull(context.Background(), store, []string{p1, p2})
	require.NoError(t, err)
	require.NoError(t, idx.CheckInvariants())

	engine, err := NewEngine(store)
	require.NoError(t, err)

	report, err := engine.Search(context.Background(), idx, "glicko rating", SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	require.NotEmpty(t, report.Results)
	require.Equal(t, "s1", report.Results[0].SessionID)
}

func TestSearchFallsBackWhenIndexAbsent(t *testing.T) {
	root := t.TempDir()
	p1 := writeSession(t, root, "s1", []string{
		rec("user", "bread recipes with sourdough starter", "2026-02-01"),
	})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)
	_ = p1

	engine, err := NewEngine(store)
	require.NoError(t, err)

	report, err := engine.Search(context.Background(), nil, "sourdough", SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	require.Equal(t, PathFallback, report.SearchPath)
	require.Empty(t, report.Results) // nil index has no session registry to scan
}

func TestTier1IntersectEmptyOnUnknownToken(t *testing.T) {
	idx := New()
	idx.AddPosting("alpha", "s1")
	got := tier1Intersect(idx, []string{"alpha", "unknownzzz"})
	require.Empty(t, got)
}

func TestIndexIdempotentRebuildSameSessionTwice(t *testing.T) {
	root := t.TempDir()
	p1 := writeSession(t, root, "s1", []string{
		rec("user", "first message about caching strategies", "2026-01-01"),
	})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	idx, err := BuildFull(context.Background(), store, []string{p1})
	require.NoError(t, err)

	added, err := appendSession(context.Background(), idx, store, "s1", p1, idx.Session("s1").LastIndexedLine)
	require.NoError(t, err)
	require.Equal(t, 0, added)
	require.Equal(t, 1, idx.Session("s1").LastIndexedLine)
}

func TestTemporalFilterAllows(t *testing.T) {
	f := &TemporalFilter{From: "2026-01-01", To: "2026-01-31"}
	require.True(t, f.Allows("2026-01-15"))
	require.False(t, f.Allows("2026-02-01"))
	require.False(t, f.Allows(""))

	var nilFilter *TemporalFilter
	require.True(t, nilFilter.Allows("anything"))
}
