package feed

import (
	"context"
	"log"
	"sync"

	"github.com/codechella/console-backend/internal/gateway"
)

// Outcome classifies what one merge or refresh attempt did. Background
// synchronization never surfaces errors to users; the explicit outcome
// exists so callers (and tests) can still observe the stale case.
type Outcome int

const (
	// OutcomeApplied means the collection changed
	OutcomeApplied Outcome = iota
	// OutcomeStale means the attempt failed and the collection kept its
	// previous (possibly outdated) contents
	OutcomeStale
	// OutcomeClosed means the feed no longer accepts mutations
	OutcomeClosed
)

// Source abstracts the gateway for the synchronizer: one full fetch
// plus one push subscription over the same topic.
type Source interface {
	InitialEvents(ctx context.Context) ([]gateway.Evento, error)
	Subscribe(ctx context.Context, sink func(gateway.Evento)) *gateway.Subscription
}

// Feed keeps a de-duplicated, continuously-updated event collection.
// Identifier uniqueness is the sole de-duplication key: a pushed record
// whose id is already present replaces that entry in place, anything
// else is appended. Push updates never remove records — a cancellation
// merged from the stream stays visible until the next full fetch, an
// accepted staleness window.
type Feed struct {
	source    Source
	broadcast func(gateway.Evento)

	mu      sync.Mutex
	eventos []gateway.Evento
	index   map[uint]int
	seeded  bool
	closed  bool

	sub *gateway.Subscription
}

// Option configures a Feed
type Option func(*Feed)

// WithBroadcast forwards every applied record downstream (redis fan-out)
func WithBroadcast(fn func(gateway.Evento)) Option {
	return func(f *Feed) { f.broadcast = fn }
}

// New builds a Feed over the given source
func New(source Source, opts ...Option) *Feed {
	f := &Feed{
		source: source,
		index:  make(map[uint]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start seeds the collection with one full fetch (cancelled records
// filtered out) and subscribes to the push topic. A push message that
// races ahead of the fetch is fine: both paths funnel through Apply.
func (f *Feed) Start(ctx context.Context) error {
	f.sub = f.source.Subscribe(ctx, func(ev gateway.Evento) {
		f.Apply(ev)
	})

	eventos, err := f.source.InitialEvents(ctx)
	if err != nil {
		log.Printf("⚠️ Initial event fetch failed, feed starts empty: %v", err)
		return err
	}

	f.seed(eventos)
	return nil
}

// seed merges the initial fetch under the same upsert the stream uses,
// preserving fetch order and skipping cancelled records.
func (f *Feed) seed(eventos []gateway.Evento) {
	for _, ev := range eventos {
		if ev.Cancelado() {
			continue
		}
		f.Apply(ev)
	}
	f.mu.Lock()
	f.seeded = true
	f.mu.Unlock()
}

// Apply inserts or replaces one record by id. Replacement preserves
// position; unseen ids append at the end.
func (f *Feed) Apply(ev gateway.Evento) Outcome {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return OutcomeClosed
	}

	if pos, ok := f.index[ev.ID]; ok {
		f.eventos[pos] = ev
	} else {
		f.index[ev.ID] = len(f.eventos)
		f.eventos = append(f.eventos, ev)
	}
	f.mu.Unlock()

	if f.broadcast != nil {
		f.broadcast(ev)
	}
	return OutcomeApplied
}

// Snapshot returns a copy of the current collection in merge order
func (f *Feed) Snapshot() []gateway.Evento {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gateway.Evento, len(f.eventos))
	copy(out, f.eventos)
	return out
}

// Get returns the record with the given id, when present
func (f *Feed) Get(id uint) (gateway.Evento, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ok := f.index[id]
	if !ok {
		return gateway.Evento{}, false
	}
	return f.eventos[pos], true
}

// Len reports the collection size
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.eventos)
}

// Refresh re-runs the full fetch and rebuilds the collection, dropping
// cancelled records. Failure keeps the previous contents (stale).
func (f *Feed) Refresh(ctx context.Context) Outcome {
	eventos, err := f.source.InitialEvents(ctx)
	if err != nil {
		return OutcomeStale
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return OutcomeClosed
	}
	f.eventos = f.eventos[:0]
	f.index = make(map[uint]int)
	f.mu.Unlock()

	for _, ev := range eventos {
		if ev.Cancelado() {
			continue
		}
		f.Apply(ev)
	}
	return OutcomeApplied
}

// Close stops the subscription and freezes the collection: later pushes
// are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	if f.sub != nil {
		f.sub.Close()
	}
}
