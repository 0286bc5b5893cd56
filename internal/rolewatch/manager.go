package rolewatch

import (
	"context"
	"sync"
	"time"

	"github.com/codechella/console-backend/internal/prefs"
)

// Manager owns at most one running watcher per user. Watchers are
// (re)started when a session authenticates or submits a request, and
// torn down on logout or session change so timers never accumulate.
type Manager struct {
	checker  StatusChecker
	store    prefs.Store
	notifier Notifier
	interval time.Duration

	mu      sync.Mutex
	gen     uint64
	running map[uint]watcherEntry
}

type watcherEntry struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewManager builds the watcher manager
func NewManager(checker StatusChecker, store prefs.Store, notifier Notifier, interval time.Duration) *Manager {
	return &Manager{
		checker:  checker,
		store:    store,
		notifier: notifier,
		interval: interval,
		running:  make(map[uint]watcherEntry),
	}
}

// Ensure starts (or restarts) the watcher for a session at the base
// cadence. A previous watcher for the same user is cancelled first: one
// timer per user.
func (m *Manager) Ensure(session Session) {
	m.EnsureAt(session, m.interval)
}

// EnsureAt restarts the session's watcher at a specific cadence. The
// dedicated status page polls faster than the background watcher.
func (m *Manager) EnsureAt(session Session, interval time.Duration) {
	m.mu.Lock()
	if prev, ok := m.running[session.UserID]; ok {
		prev.cancel()
	}
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(context.Background())
	m.running[session.UserID] = watcherEntry{gen: gen, cancel: cancel}
	m.mu.Unlock()

	w := New(m.checker, m.store, m.notifier, session, interval)
	go func() {
		defer m.release(session.UserID, gen)
		w.Run(ctx)
	}()
}

// Stop tears down the user's watcher, if any (logout / session change)
func (m *Manager) Stop(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.running[userID]; ok {
		entry.cancel()
		delete(m.running, userID)
	}
}

// StopAll cancels every watcher (shutdown)
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.running {
		entry.cancel()
		delete(m.running, id)
	}
}

// release clears the map entry when a watcher finishes on its own,
// unless a newer watcher already replaced it
func (m *Manager) release(userID uint, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.running[userID]; ok && entry.gen == gen {
		entry.cancel()
		delete(m.running, userID)
	}
}

// Interval is the base polling cadence watchers run at
func (m *Manager) Interval() time.Duration { return m.interval }
