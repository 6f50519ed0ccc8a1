package maintainer

import (
	"context"
	"sync"
	"time"

	"github.com/vriveras/refcore/logging"
)

// DefaultDebounce is the per-session coalescing window.
const DefaultDebounce = 5 * time.Second

// DefaultCooldown is the minimum gap between successful updates for a
// single session.
const DefaultCooldown = 30 * time.Second

type pendingEntry struct {
	path  string
	timer *time.Timer
}

// Scheduler debounces and cooldown-gates session:transcript:update events
// before handing each coalesced update to a Maintainer. It is safe for
// concurrent use.
type Scheduler struct {
	mu sync.Mutex

	debounce time.Duration
	cooldown time.Duration
	queue    *boundedQueue
	pending  map[string]*pendingEntry
	lastRun  map[string]time.Time

	maintainer *Maintainer
	logger     logging.Logger

	now       func() time.Time
	afterFunc func(time.Duration, func()) *time.Timer
}

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	Maintainer *Maintainer
	// Debounce overrides D; zero uses DefaultDebounce.
	Debounce time.Duration
	// Cooldown overrides C; zero uses DefaultCooldown.
	Cooldown time.Duration
	// QueueCapacity overrides Nq; zero uses DefaultQueueCapacity.
	QueueCapacity int
	Logger        logging.Logger
}

// NewScheduler returns a Scheduler that runs updates via cfg.Maintainer.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	s := &Scheduler{
		debounce:   debounce,
		cooldown:   cooldown,
		queue:      newBoundedQueue(cfg.QueueCapacity),
		pending:    make(map[string]*pendingEntry),
		lastRun:    make(map[string]time.Time),
		maintainer: cfg.Maintainer,
		logger:     logger,
		now:        time.Now,
	}
	s.afterFunc = func(d time.Duration, f func()) *time.Timer {
		return time.AfterFunc(d, f)
	}
	return s
}

// Notify handles one session:transcript:update{sessionFile} event:
// coalesce within the debounce window, gate by cooldown, and evict the
// oldest pending session if the bounded queue would overflow.
func (s *Scheduler) Notify(sessionID, sessionFilePath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	fireAt := now.Add(s.debounce)
	if last, ok := s.lastRun[sessionID]; ok {
		if cooldownEnd := last.Add(s.cooldown); cooldownEnd.After(fireAt) {
			fireAt = cooldownEnd
		}
	}
	delay := fireAt.Sub(now)
	if delay < 0 {
		delay = 0
	}

	if entry, ok := s.pending[sessionID]; ok {
		entry.timer.Stop()
		entry.path = sessionFilePath
		entry.timer = s.afterFunc(delay, func() { s.fire(sessionID) })
		return
	}

	if evicted, didEvict := s.queue.push(sessionID); didEvict {
		if old, ok := s.pending[evicted]; ok {
			old.timer.Stop()
			delete(s.pending, evicted)
		}
		s.logger.Warn("maintainer queue full, dropped pending update for session %s", evicted)
	}

	s.pending[sessionID] = &pendingEntry{
		path:  sessionFilePath,
		timer: s.afterFunc(delay, func() { s.fire(sessionID) }),
	}
}

// fire runs the coalesced update for sessionID once its debounce/cooldown
// window elapses.
func (s *Scheduler) fire(sessionID string) {
	s.mu.Lock()
	entry, ok := s.pending[sessionID]
	if !ok {
		s.mu.Unlock()
		return
	}
	path := entry.path
	delete(s.pending, sessionID)
	s.queue.remove(sessionID)
	s.mu.Unlock()

	ctx := context.Background()
	result, err := s.maintainer.UpdateIndex(ctx, sessionID, path)
	if err != nil {
		s.logger.Error("updateIndex failed for session %s: %v", sessionID, err)
		return
	}

	s.mu.Lock()
	s.lastRun[sessionID] = s.now()
	s.mu.Unlock()

	s.logger.Info("indexed session %s: messagesAdded=%d timeMs=%.2f", sessionID, result.MessagesAdded, result.TimeMs)
}

// Pending reports how many distinct sessions currently have an update
// scheduled. Exposed for tests and diagnostics.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.len()
}
