package maintainer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/logging"
	"github.com/vriveras/refcore/workspace"
)

// DefaultRebuildSweepInterval is SPEC_FULL.md §4.4's periodic stale-check
// cadence.
const DefaultRebuildSweepInterval = 5 * time.Minute

// RebuildSweep periodically checks the index for staleness and triggers a
// full Rebuild when no incremental update has reconciled it, covering the
// stale -> rebuilding edge even when updateIndex is never called for the
// stale session.
type RebuildSweep struct {
	scheduler gocron.Scheduler
}

// SweepConfig configures a RebuildSweep.
type SweepConfig struct {
	Maintainer   *Maintainer
	Store        workspace.FileStore
	IndexPath    string
	SessionPaths func() []string
	// Interval overrides the sweep cadence; 0 selects
	// DefaultRebuildSweepInterval and a negative value disables the sweep.
	Interval time.Duration
	Logger   logging.Logger
}

// StartRebuildSweep starts a gocron job running every cfg.Interval (default
// DefaultRebuildSweepInterval when it is 0). It returns nil, nil if
// cfg.Interval is negative, which disables the sweep.
func StartRebuildSweep(cfg SweepConfig) (*RebuildSweep, error) {
	if cfg.Interval < 0 {
		return nil, nil
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultRebuildSweepInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("maintainer: create sweep scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			runSweepOnce(cfg, logger)
		}),
		gocron.WithName("index-rebuild-sweep"),
	)
	if err != nil {
		sched.Shutdown()
		return nil, fmt.Errorf("maintainer: schedule sweep: %w", err)
	}

	sched.Start()
	return &RebuildSweep{scheduler: sched}, nil
}

func runSweepOnce(cfg SweepConfig, logger logging.Logger) {
	idx, err := index.Load(cfg.IndexPath)
	if err != nil {
		logger.Warn("rebuild sweep: load index: %v", err)
		return
	}
	if idx == nil {
		return
	}

	paths := cfg.SessionPaths()
	modTime := func(p string) (int64, bool) {
		mt, err := cfg.Store.ModTime(context.Background(), p)
		if err != nil {
			return 0, false
		}
		return mt, true
	}

	if !index.IsStale(idx, paths, modTime) {
		return
	}

	logger.Info("rebuild sweep: index stale, rebuilding %d sessions", len(paths))
	if err := cfg.Maintainer.Rebuild(context.Background(), paths); err != nil {
		logger.Error("rebuild sweep: rebuild failed: %v", err)
	}
}

// Stop shuts down the sweep's scheduler.
func (r *RebuildSweep) Stop() error {
	if r == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}
