package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vriveras/refcore/eval"
)

var (
	sweepGroundTruth string
	sweepWorkspace   string
	sweepIndexPath   string
	sweepOut         string
	sweepResume      bool
	sweepModesCSV    string
	sweepMaxConfigs  int

	sweepMaxHops               []int
	sweepExpandTopK            []int
	sweepDefaultLines          []int
	sweepMaxTotalExpandedChars []int

	sweepMaxResults   int
	sweepPreviewChars int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep a recursive-config grid and report the winning cell",
	Long: `Sweep runs one suite per cell of the Cartesian product of
--max-hops x --expand-top-k x --default-lines x --max-total-expanded-chars,
bounded by --max-configs, checkpointing --out after every cell. Re-running
with --resume skips any cell whose label is already present in the report,
so an interrupted sweep picks back up where it left off.

Example:
  refcore-eval sweep -g suite.yaml -w ./ws \
    --max-hops 1,2 --expand-top-k 1,2,3 --default-lines 10,20,40 \
    --max-total-expanded-chars 8000,12000 --max-configs 12 --out sweep.json
`,
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.StringVarP(&sweepGroundTruth, "ground-truth", "g", "", "ground-truth suite file (YAML or JSON, required)")
	f.StringVarP(&sweepWorkspace, "workspace", "w", ".", "workspace root containing memory/ and sessions/")
	f.StringVar(&sweepIndexPath, "index", "", "index file path (defaults to <workspace>/.refcore-index.json)")
	f.StringVarP(&sweepOut, "out", "o", "sweep.json", "report checkpoint path")
	f.BoolVar(&sweepResume, "resume", false, "skip grid cells already present in --out")
	f.StringVar(&sweepModesCSV, "modes", "", "comma-separated modes to run (default: baseline,refs,expand,recursiveRefs)")
	f.IntVar(&sweepMaxConfigs, "max-configs", 20, "max grid cells to run (0 = unbounded)")

	f.IntSliceVar(&sweepMaxHops, "max-hops", []int{1}, "grid values for recursive max hops")
	f.IntSliceVar(&sweepExpandTopK, "expand-top-k", []int{2}, "grid values for hop expansion top-k")
	f.IntSliceVar(&sweepDefaultLines, "default-lines", []int{20}, "grid values for recursive expand default lines")
	f.IntSliceVar(&sweepMaxTotalExpandedChars, "max-total-expanded-chars", []int{12000}, "grid values for total expanded chars budget")

	f.IntVar(&sweepMaxResults, "max-results", 10, "max results per search")
	f.IntVar(&sweepPreviewChars, "preview-chars", 140, "preview truncation length")

	_ = sweepCmd.MarkFlagRequired("ground-truth")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	v, err := bindViper(cmd)
	if err != nil {
		return err
	}

	groundTruthPath := v.GetString("ground-truth")
	workspaceRoot := v.GetString("workspace")
	indexPath := v.GetString("index")
	if indexPath == "" {
		indexPath = workspaceRoot + "/.refcore-index.json"
	}
	outPath := v.GetString("out")
	maxConfigs := v.GetInt("max-configs")

	modes, err := parseModes(v.GetString("modes"))
	if err != nil {
		return err
	}

	ctx := context.Background()

	gt, err := eval.LoadGroundTruth(groundTruthPath)
	if err != nil {
		return err
	}

	resume := v.GetBool("resume")
	existing, err := reportExists(outPath)
	if err != nil {
		return err
	}
	if existing && !resume {
		return fmt.Errorf("refcore-eval: %s already exists; pass --resume to continue it or remove it first", outPath)
	}

	report, err := loadOrNewReport(outPath)
	if err != nil {
		return err
	}
	report.GroundTruth = eval.GroundTruthMeta{Description: gt.Description, Version: gt.Version}

	orch, store, err := bootstrapOrchestrator(ctx, workspaceRoot, indexPath)
	if err != nil {
		return err
	}

	base := eval.Options{
		MaxResults:   v.GetInt("max-results"),
		PreviewChars: v.GetInt("preview-chars"),
	}
	report.Defaults = base

	grid := eval.SweepGrid{
		MaxHops:               sweepMaxHops,
		ExpandTopK:            sweepExpandTopK,
		DefaultLines:          sweepDefaultLines,
		MaxTotalExpandedChars: sweepMaxTotalExpandedChars,
	}

	best, err := eval.Sweep(ctx, gt, modes, orch, store, base, grid, maxConfigs, report, outPath)
	if err != nil {
		return fmt.Errorf("refcore-eval: sweep: %w", err)
	}

	if best == nil {
		fmt.Printf("refcore-eval: sweep produced no cells, report written to %s\n", outPath)
		return nil
	}
	fmt.Printf("refcore-eval: sweep done, best cell %s: passRate=%.2f tokensMean=%.1f latencyP95=%.1fms, report written to %s\n",
		best.Cfg.Label(), best.PassRate, best.RecTokensMean, best.RecLatencyP95, outPath)
	return nil
}
