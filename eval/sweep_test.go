package eval

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweepGridCellsBoundedByMaxConfigs(t *testing.T) {
	grid := SweepGrid{
		MaxHops:               []int{1, 2},
		ExpandTopK:            []int{1, 2},
		DefaultLines:          []int{10},
		MaxTotalExpandedChars: []int{5000},
	}
	all := grid.Cells(0)
	require.Len(t, all, 4)

	bounded := grid.Cells(3)
	require.Len(t, bounded, 3)
}

func TestSweepGridCellsDefaultAxisWhenEmpty(t *testing.T) {
	cells := SweepGrid{}.Cells(0)
	require.Len(t, cells, 1)
}

// TestSweepResumeAppendsOnlyRemainingCells exercises the harness-resume
// scenario: run a 3-config sweep, simulate an abort after two completed
// suites by checkpointing only those two, then resume with max-configs=5
// and confirm exactly three more suites are appended (five total).
func TestSweepResumeAppendsOnlyRemainingCells(t *testing.T) {
	orch, store := newTestOrchestrator(t)
	gt := testGroundTruth()
	dir := t.TempDir()
	outPath := filepath.Join(dir, "report.json")

	grid := SweepGrid{
		MaxHops:               []int{1, 2, 3, 4, 5},
		ExpandTopK:            []int{1},
		DefaultLines:          []int{10},
		MaxTotalExpandedChars: []int{4000},
	}

	firstRunCells := grid.Cells(3)
	require.Len(t, firstRunCells, 3)

	report := &Report{GroundTruth: GroundTruthMeta{Description: gt.Description, Version: gt.Version}}
	// Simulate "abort after two completed suites": only checkpoint the
	// first two of the three cells the first run would have produced.
	for _, cell := range firstRunCells[:2] {
		opts := Options{Label: cell.Label(), Recursive: cellRecursiveConfig(cell, nil)}
		suite, err := RunSuite(context.Background(), gt, []Mode{ModeRecursive}, orch, store, opts)
		require.NoError(t, err)
		report.Append(*suite)
	}
	require.NoError(t, report.Checkpoint(outPath, time.Now()))
	require.Len(t, report.Suites, 2)

	// Resume: re-read from disk, and sweep with max-configs=5. The first
	// two cells are already present and must be skipped; exactly three
	// more are appended, leaving five suites total.
	resumed, err := LoadReport(outPath)
	require.NoError(t, err)
	require.Len(t, resumed.Suites, 2)

	_, err = Sweep(context.Background(), gt, []Mode{ModeRecursive}, orch, store, Options{}, grid, 5, resumed, outPath)
	require.NoError(t, err)
	require.Len(t, resumed.Suites, 5)

	onDisk, err := LoadReport(outPath)
	require.NoError(t, err)
	require.Len(t, onDisk.Suites, 5)
	require.NotNil(t, onDisk.Sweep)
	require.NotNil(t, onDisk.Sweep.Best)
}
