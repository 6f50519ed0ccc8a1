package maintainer

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/vriveras/refcore/logging"
	"github.com/vriveras/refcore/workspace"
)

// Watcher watches a sessions directory and forwards appends to a
// Scheduler's Notify, independently of any host-delivered
// session:transcript:update event (SPEC_FULL.md §4.4 addition: a second
// transport for the same debounced queue).
type Watcher struct {
	fsw       *fsnotify.Watcher
	scheduler *Scheduler
	logger    logging.Logger
	done      chan struct{}
}

// NewWatcher opens an fsnotify watch on sessionsDir and forwards every
// write/create event for a "<sessionId>.jsonl" file to scheduler.Notify.
// relPrefix is the workspace-relative directory ("sessions") used to build
// the relative path Notify expects.
func NewWatcher(sessionsDir, relPrefix string, scheduler *Scheduler, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("maintainer: create watcher: %w", err)
	}
	if err := fsw.Add(sessionsDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("maintainer: watch %s: %w", sessionsDir, err)
	}

	w := &Watcher{fsw: fsw, scheduler: scheduler, logger: logger, done: make(chan struct{})}
	go w.loop(relPrefix)
	return w, nil
}

func (w *Watcher) loop(relPrefix string) {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".jsonl") {
				continue
			}
			sessionID, ok := workspace.SessionIDFromPath(ev.Name)
			if !ok {
				continue
			}
			w.scheduler.Notify(sessionID, relPrefix+"/"+sessionID+".jsonl")
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("maintainer watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
