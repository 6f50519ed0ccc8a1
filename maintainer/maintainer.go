// Package maintainer implements the Index Maintainer: the locked,
// debounced, cooldown-gated protocol that folds new session-transcript
// lines into the inverted index.
package maintainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vriveras/refcore/index"
	"github.com/vriveras/refcore/logging"
	"github.com/vriveras/refcore/workspace"
)

// UpdateResult is updateIndex's return value.
type UpdateResult struct {
	MessagesAdded int
	TimeMs        float64
}

// Config configures a Maintainer.
type Config struct {
	// Store reads session transcripts.
	Store workspace.FileStore
	// IndexPath is the on-disk index file's absolute path.
	IndexPath string
	// LockTimeout bounds how long to wait for the exclusive lock. Zero uses
	// DefaultLockTimeout.
	LockTimeout time.Duration
	// Logger receives per-update diagnostics. Nil uses logging.Nop.
	Logger logging.Logger
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return errors.New("maintainer: config cannot be nil")
	}
	if cfg.Store == nil {
		return errors.New("maintainer: store cannot be nil")
	}
	if cfg.IndexPath == "" {
		return errors.New("maintainer: index path cannot be empty")
	}
	return nil
}

// Maintainer owns the single on-disk index and serialises every update to
// it behind a file lock.
type Maintainer struct {
	store       workspace.FileStore
	indexPath   string
	lockPath    string
	lockTimeout time.Duration
	logger      logging.Logger
}

// New returns a Maintainer ready to run updateIndex calls.
func New(cfg *Config) (*Maintainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Maintainer{
		store:       cfg.Store,
		indexPath:   cfg.IndexPath,
		lockPath:    cfg.IndexPath + ".lock",
		lockTimeout: cfg.LockTimeout,
		logger:      logger,
	}, nil
}

// UpdateIndex runs the full locked protocol for one session: acquire the
// lock, load the index, tokenise every record past
// sessions[sessionId].lastIndexedLine, fold it in, and atomically persist.
func (m *Maintainer) UpdateIndex(ctx context.Context, sessionID, sessionFilePath string) (UpdateResult, error) {
	start := time.Now()
	var result UpdateResult

	err := withLock(ctx, m.lockPath, m.lockTimeout, func() error {
		idx, err := index.Load(m.indexPath)
		if err != nil {
			var corrupt *index.CorruptionError
			if errors.As(err, &corrupt) {
				m.logger.Warn("index corrupt, rebuilding from scratch: %v", corrupt)
				idx = nil
			} else {
				return fmt.Errorf("maintainer: load index: %w", err)
			}
		}
		if idx == nil {
			idx = index.New()
		}

		fromLine := 0
		if sess := idx.Session(sessionID); sess != nil {
			fromLine = sess.LastIndexedLine
		}

		added, err := index.UpdateSession(ctx, idx, m.store, sessionID, sessionFilePath, fromLine)
		if err != nil {
			return fmt.Errorf("maintainer: update session %s: %w", sessionID, err)
		}
		idx.LastUpdated = time.Now().UTC()

		if err := persist(idx, m.indexPath); err != nil {
			return err
		}

		result = UpdateResult{MessagesAdded: added, TimeMs: msSince(start)}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}

	m.logger.Debug("updateIndex sessionId=%s added=%d timeMs=%.2f", sessionID, result.MessagesAdded, result.TimeMs)
	return result, nil
}

// Rebuild performs a full rebuild of all known session files, used by the
// periodic stale-index sweep when a session goes stale without an
// intervening incremental update.
func (m *Maintainer) Rebuild(ctx context.Context, sessionPaths []string) error {
	return withLock(ctx, m.lockPath, m.lockTimeout, func() error {
		idx, err := index.BuildFull(ctx, m.store, sessionPaths)
		if err != nil {
			return fmt.Errorf("maintainer: rebuild: %w", err)
		}
		idx.LastUpdated = time.Now().UTC()
		return persist(idx, m.indexPath)
	})
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
