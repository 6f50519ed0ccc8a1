package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vriveras/refcore/eval"
	"github.com/vriveras/refcore/refs"
)

var (
	runGroundTruth string
	runWorkspace   string
	runIndexPath   string
	runOut         string
	runResume      bool
	runModesCSV    string
	runLabel       string

	runMaxResults   int
	runPreviewChars int

	runExpandDefaultLines  int
	runExpandMaxRefs       int
	runExpandMaxChars      int
	runExpandMaxTotalChars int

	runRecursive     bool
	runMaxHops       int
	runMaxRefsPerHop int
	runExpandTopK    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one evaluation suite against a ground-truth file",
	Long: `Run executes every requested mode for every ground-truth case against
a workspace's retrieval core, checkpoints the result to --out, and exits
non-zero only on a harness-level error — a single case failing its
expectation is reflected in the report's passRate, not a CLI failure.

Examples:
  refcore-eval run --ground-truth testdata/suite.yaml --workspace ./ws
  refcore-eval run -g suite.yaml -w ./ws --out report.json --resume
`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runGroundTruth, "ground-truth", "g", "", "ground-truth suite file (YAML or JSON, required)")
	f.StringVarP(&runWorkspace, "workspace", "w", ".", "workspace root containing memory/ and sessions/")
	f.StringVar(&runIndexPath, "index", "", "index file path (defaults to <workspace>/.refcore-index.json)")
	f.StringVarP(&runOut, "out", "o", "report.json", "report checkpoint path")
	f.BoolVar(&runResume, "resume", false, "skip this run if --out already has a suite with this label")
	f.StringVar(&runModesCSV, "modes", "", "comma-separated modes to run (default: baseline,refs,expand,recursiveRefs)")
	f.StringVar(&runLabel, "label", "default", "suite label recorded in the report and checked by --resume")

	f.IntVar(&runMaxResults, "max-results", 10, "max results per search")
	f.IntVar(&runPreviewChars, "preview-chars", 140, "preview truncation length")

	f.IntVar(&runExpandDefaultLines, "expand-default-lines", 60, "expand window default line count")
	f.IntVar(&runExpandMaxRefs, "expand-max-refs", 2, "max refs expanded per case")
	f.IntVar(&runExpandMaxChars, "expand-max-chars", 8000, "max chars per expanded window")
	f.IntVar(&runExpandMaxTotalChars, "expand-max-total-chars", 0, "max total expanded chars across refs (default: expand-max-chars * expand-max-refs)")

	f.BoolVar(&runRecursive, "recursive", false, "configure the recursiveRefs mode (required if it's in --modes)")
	f.IntVar(&runMaxHops, "max-hops", 1, "recursive: max hop count")
	f.IntVar(&runMaxRefsPerHop, "max-refs-per-hop", 8, "recursive: max refs considered per hop")
	f.IntVar(&runExpandTopK, "expand-top-k", 2, "recursive: refs expanded per hop for the next query")

	_ = runCmd.MarkFlagRequired("ground-truth")
}

func runRun(cmd *cobra.Command, _ []string) error {
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
	resume := v.GetBool("resume")
	label := v.GetString("label")

	modes, err := parseModes(v.GetString("modes"))
	if err != nil {
		return err
	}

	ctx := context.Background()

	gt, err := eval.LoadGroundTruth(groundTruthPath)
	if err != nil {
		return err
	}

	report, err := loadOrNewReport(outPath)
	if err != nil {
		return err
	}
	report.GroundTruth = eval.GroundTruthMeta{Description: gt.Description, Version: gt.Version}

	if resume && report.HasSuite(label) {
		fmt.Printf("refcore-eval: suite %q already present in %s, skipping (--resume)\n", label, outPath)
		return nil
	}

	orch, store, err := bootstrapOrchestrator(ctx, workspaceRoot, indexPath)
	if err != nil {
		return err
	}

	opts := eval.Options{
		Label:               label,
		MaxResults:          v.GetInt("max-results"),
		PreviewChars:        v.GetInt("preview-chars"),
		ExpandDefaultLines:  v.GetInt("expand-default-lines"),
		ExpandMaxRefs:       v.GetInt("expand-max-refs"),
		ExpandMaxChars:      v.GetInt("expand-max-chars"),
		ExpandMaxTotalChars: v.GetInt("expand-max-total-chars"),
	}
	if v.GetBool("recursive") {
		cfg := refs.DefaultRecursiveConfig()
		cfg.Enabled = true
		cfg.MaxHops = v.GetInt("max-hops")
		cfg.MaxRefsPerHop = v.GetInt("max-refs-per-hop")
		cfg.ExpandTopK = v.GetInt("expand-top-k")
		opts.Recursive = &cfg
	}
	report.Defaults = opts

	suite, err := eval.RunSuite(ctx, gt, modes, orch, store, opts)
	if err != nil {
		return fmt.Errorf("refcore-eval: run suite: %w", err)
	}
	report.Append(*suite)

	if err := report.Checkpoint(outPath, time.Now()); err != nil {
		return err
	}

	fmt.Printf("refcore-eval: suite %q done: %d cases, passRate=%.2f, report written to %s\n",
		label, len(suite.Cases), suite.PassRate, outPath)
	return nil
}

// loadOrNewReport loads an existing checkpoint at path, or starts a fresh
// one if none exists yet; any other read/parse error is returned.
func loadOrNewReport(path string) (*eval.Report, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &eval.Report{}, nil
		}
		return nil, fmt.Errorf("refcore-eval: stat report %s: %w", path, err)
	}
	return eval.LoadReport(path)
}

// reportExists reports whether path already holds a checkpoint, erroring on
// anything other than "file not found".
func reportExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("refcore-eval: stat report %s: %w", path, err)
	}
	return true, nil
}
