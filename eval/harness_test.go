package eval

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

func recursiveConfigForTest() *refs.RecursiveConfig {
	cfg := refs.DefaultRecursiveConfig()
	cfg.Enabled = true
	cfg.MaxHops = 1
	cfg.ExpandTopK = 2
	cfg.DefaultLines = 5
	return &cfg
}

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

func newTestOrchestrator(t *testing.T) (*retrieval.Orchestrator, workspace.FileStore) {
	t.Helper()
	root := t.TempDir()

	p1 := writeSession(t, root, "s1", []string{
		rec("user", "what is the glicko rating system for chess", "2026-01-01"),
		rec("assistant", "glicko uses rating deviation and volatility to rank players", "2026-01-01"),
	})
	p2 := writeSession(t, root, "s2", []string{
		rec("user", "how do I bake sourdough bread at home", "2026-02-01"),
	})

	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	idx, err := index.BuildFull(context.Background(), store, []string{p1, p2})
	require.NoError(t, err)

	engine, err := index.NewEngine(store)
	require.NoError(t, err)

	orch := &retrieval.Orchestrator{
		Index: &retrieval.IndexEngineAdapter{Engine: engine, Index: idx},
		Store: store,
	}
	return orch, store
}

func testGroundTruth() *GroundTruth {
	return &GroundTruth{
		Description: "smoke suite",
		Version:     "1",
		Cases: []GroundTruthCase{
			{ID: "glicko", Query: "glicko rating", Expect: Expectation{AnyContains: []string{"rating deviation"}}},
			{ID: "miss", Query: "quantum computing hardware", Expect: Expectation{AnyContains: []string{"qubit"}}},
		},
	}
}

func TestRunSuiteComputesPerCaseAndAggregateResults(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	gt := testGroundTruth()

	suite, err := RunSuite(context.Background(), gt, []Mode{ModeBaseline, ModeRefs, ModeExpand}, orch, store, Options{Label: "smoke"})
	require.NoError(t, err)
	require.Equal(t, "smoke", suite.Label)
	require.Len(t, suite.Cases, 2)

	var glicko, miss CaseResult
	for _, c := range suite.Cases {
		switch c.ID {
		case "glicko":
			glicko = c
		case "miss":
			miss = c
		}
	}

	require.True(t, glicko.OK)
	require.True(t, glicko.OKByMode[ModeBaseline] || glicko.OKByMode[ModeRefs] || glicko.OKByMode[ModeExpand])
	require.Greater(t, glicko.Counts.RefsReturned, 0)
	require.Greater(t, glicko.LatencyMs.Total, 0.0)

	require.False(t, miss.OK)

	require.InDelta(t, 0.5, suite.PassRate, 1e-9)
	require.Contains(t, suite.Aggregates, "latencyMs.total")
}

func TestRunSuiteRecursiveModeRequiresRecursiveConfig(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	gt := testGroundTruth()

	suite, err := RunSuite(context.Background(), gt, []Mode{ModeRecursive}, orch, store, Options{Label: "no-recursive-cfg"})
	require.NoError(t, err)
	for _, c := range suite.Cases {
		require.Contains(t, c.Errors, ModeRecursive)
		require.False(t, c.OK)
	}
}

func TestRunSuiteRecursiveModeProducesRecursiveMeta(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	gt := testGroundTruth()

	recCfg := recursiveConfigForTest()
	suite, err := RunSuite(context.Background(), gt, []Mode{ModeRecursive}, orch, store, Options{
		Label:     "recursive",
		Recursive: recCfg,
	})
	require.NoError(t, err)

	for _, c := range suite.Cases {
		if c.ID == "glicko" {
			require.NotNil(t, c.RecursiveMeta)
		}
	}
}
