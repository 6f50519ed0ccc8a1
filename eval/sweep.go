package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/retrieval"
	"github.com/vriveras/refcore/workspace"
)

// SweepGrid is the parameter grid Sweep enumerates the Cartesian product
// of.
type SweepGrid struct {
	MaxHops               []int `json:"maxHops"`
	ExpandTopK            []int `json:"expandTopK"`
	DefaultLines          []int `json:"defaultLines"`
	MaxTotalExpandedChars []int `json:"maxTotalExpandedChars"`
}

// SweepCell is one point in the grid.
type SweepCell struct {
	MaxHops               int `json:"maxHops"`
	ExpandTopK            int `json:"expandTopK"`
	DefaultLines          int `json:"defaultLines"`
	MaxTotalExpandedChars int `json:"maxTotalExpandedChars"`
}

// Label formats cell as a stable, human-readable suite label, used both to
// name the checkpointed suite and to detect it on --resume.
func (c SweepCell) Label() string {
	return fmt.Sprintf("maxHops=%d,expandTopK=%d,defaultLines=%d,maxTotalExpandedChars=%d",
		c.MaxHops, c.ExpandTopK, c.DefaultLines, c.MaxTotalExpandedChars)
}

// sweepObjective names the fixed ordered objective: maximise passRate,
// then minimise tokens.recursiveRefs.mean, then minimise
// latencyMs.recursiveRefs.p95.
var sweepObjective = []string{"passRate(max)", "tokens.recursiveRefs.mean(min)", "latencyMs.recursiveRefs.p95(min)"}

// Cells enumerates the grid's Cartesian product, bounded by maxConfigs
// (0 or negative means unbounded).
func (g SweepGrid) Cells(maxConfigs int) []SweepCell {
	maxHops := orDefault(g.MaxHops, 1)
	expandTopK := orDefault(g.ExpandTopK, 2)
	defaultLines := orDefault(g.DefaultLines, 20)
	maxTotal := orDefault(g.MaxTotalExpandedChars, 12000)

	var cells []SweepCell
	for _, mh := range maxHops {
		for _, tk := range expandTopK {
			for _, dl := range defaultLines {
				for _, mt := range maxTotal {
					cells = append(cells, SweepCell{MaxHops: mh, ExpandTopK: tk, DefaultLines: dl, MaxTotalExpandedChars: mt})
					if maxConfigs > 0 && len(cells) >= maxConfigs {
						return cells
					}
				}
			}
		}
	}
	return cells
}

func orDefault(in []int, def int) []int {
	if len(in) == 0 {
		return []int{def}
	}
	return in
}

// Sweep runs one suite per grid cell, checkpointing report after each
// completed suite and skipping any cell whose label is already present in
// report (the --resume path). It mutates report in place and returns the
// winning cell, selected by the ordered objective.
func Sweep(ctx context.Context, gt *GroundTruth, modes []Mode, orch *retrieval.Orchestrator, store workspace.FileStore, base Options, grid SweepGrid, maxConfigs int, report *Report, outPath string) (*BestCell, error) {
	report.Sweep = &SweepMeta{Grid: grid, Objective: sweepObjective}

	cells := grid.Cells(maxConfigs)
	for _, cell := range cells {
		label := cell.Label()
		if report.HasSuite(label) {
			continue
		}

		opts := base
		opts.Label = label
		opts.Recursive = cellRecursiveConfig(cell, base.Recursive)

		suite, err := RunSuite(ctx, gt, modes, orch, store, opts)
		if err != nil {
			return nil, fmt.Errorf("eval: sweep cell %s: %w", label, err)
		}

		report.Append(*suite)
		if err := report.Checkpoint(outPath, time.Now()); err != nil {
			return nil, err
		}
	}

	best := selectBest(report.Suites, cells)
	report.Sweep.Best = best
	if err := report.Checkpoint(outPath, time.Now()); err != nil {
		return nil, err
	}
	return best, nil
}

func cellRecursiveConfig(cell SweepCell, base *refs.RecursiveConfig) *refs.RecursiveConfig {
	cfg := refs.DefaultRecursiveConfig()
	if base != nil {
		cfg = *base
	}
	cfg.Enabled = true
	cfg.MaxHops = cell.MaxHops
	cfg.ExpandTopK = cell.ExpandTopK
	cfg.DefaultLines = cell.DefaultLines
	cfg.MaxTotalExpandedChars = cell.MaxTotalExpandedChars
	return &cfg
}

// selectBest applies the ordered objective over every cell's suite,
// matching suites back to cells by label.
func selectBest(suites []Suite, cells []SweepCell) *BestCell {
	byLabel := make(map[string]Suite, len(suites))
	for _, s := range suites {
		byLabel[s.Label] = s
	}

	var best *BestCell
	for _, cell := range cells {
		suite, ok := byLabel[cell.Label()]
		if !ok {
			continue
		}
		tokensMean := suite.Aggregates["tokens.recursiveRefs"].Mean
		latencyP95 := suite.Aggregates["latencyMs.recursiveRefs"].P95

		candidate := &BestCell{
			Cfg:           cell,
			PassRate:      suite.PassRate,
			RecTokensMean: tokensMean,
			RecLatencyP95: latencyP95,
		}
		if best == nil || isBetter(candidate, best) {
			best = candidate
		}
	}
	return best
}

func isBetter(a, b *BestCell) bool {
	if a.PassRate != b.PassRate {
		return a.PassRate > b.PassRate
	}
	if a.RecTokensMean != b.RecTokensMean {
		return a.RecTokensMean < b.RecTokensMean
	}
	return a.RecLatencyP95 < b.RecLatencyP95
}
