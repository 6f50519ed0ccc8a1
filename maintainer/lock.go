package maintainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout is the blocking timeout for acquiring the index
// file's exclusive advisory lock.
const DefaultLockTimeout = 30 * time.Second

// ErrLockTimeout is returned when the exclusive lock cannot be acquired
// within the configured timeout.
type ErrLockTimeout struct {
	Path    string
	Timeout time.Duration
}

func (e *ErrLockTimeout) Error() string {
	return fmt.Sprintf("maintainer: could not acquire lock on %s within %s", e.Path, e.Timeout)
}

// withLock acquires an exclusive advisory lock on lockPath, runs fn, then
// releases it. The lock file is a sibling of the index file, never the
// index file itself, so a reader opening the index for a plain read never
// blocks on it.
func withLock(ctx context.Context, lockPath string, timeout time.Duration, fn func() error) error {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}

	fl := flock.New(lockPath)
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return &ErrLockTimeout{Path: lockPath, Timeout: timeout}
		}
		return fmt.Errorf("maintainer: lock %s: %w", lockPath, err)
	}
	if !ok {
		return &ErrLockTimeout{Path: lockPath, Timeout: timeout}
	}
	defer fl.Unlock()

	return fn()
}
