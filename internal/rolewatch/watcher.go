package rolewatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/internal/prefs"
)

// Outcome reports what one reconciliation tick did. Ticks never surface
// errors to the user; "stale" keeps the current state and retries later.
type Outcome int

const (
	// OutcomeNoop means there was nothing to reconcile
	OutcomeNoop Outcome = iota
	// OutcomeApplied means the local slot changed
	OutcomeApplied
	// OutcomePending means the backend still reports PENDENTE; keep polling
	OutcomePending
	// OutcomeStale means the backend check failed; state unchanged
	OutcomeStale
	// OutcomeTerminal means the slot is terminal and polling may stop
	OutcomeTerminal
)

// StatusChecker is the slice of the gateway the watcher needs
type StatusChecker interface {
	CheckRequestStatus(ctx context.Context, usuarioID uint, token string) (*gateway.StatusSolicitacao, error)
}

// Notifier receives the one-time promotion signal
type Notifier interface {
	PromotionApproved(ctx context.Context, userID uint, userName string)
}

// Session is the immutable-per-watcher view of the logged-in user
type Session struct {
	UserID uint
	Nome   string
	Role   string
	Token  string
}

// Elevated reports whether the session already carries ADMIN or SUPER
func (s Session) Elevated() bool {
	return s.Role == "ADMIN" || s.Role == "SUPER"
}

// Watcher reconciles the locally cached role-request slot against the
// backend's authoritative status. State machine over the slot's status:
// {none, PENDENTE, APROVADA, NEGADA}; APROVADA and NEGADA are terminal.
//
// Only a PENDENTE slot owned by the current (non-elevated) user keeps a
// repeating timer; everything else is at most a one-shot reconciliation.
type Watcher struct {
	checker  StatusChecker
	store    prefs.Store
	notifier Notifier
	session  Session

	// Interval is the polling cadence: 10s, or 5s on the dedicated
	// status page
	Interval time.Duration

	mu       sync.Mutex
	notified bool
}

// New builds a watcher for one session
func New(checker StatusChecker, store prefs.Store, notifier Notifier, session Session, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Watcher{
		checker:  checker,
		store:    store,
		notifier: notifier,
		session:  session,
		Interval: interval,
	}
}

// Run reconciles immediately, then keeps polling while the slot stays
// PENDENTE. Returns when the slot goes terminal, the watcher has nothing
// to do, or ctx is cancelled (session change / teardown).
func (w *Watcher) Run(ctx context.Context) {
	outcome := w.Reconcile(ctx)
	if outcome == OutcomeTerminal || outcome == OutcomeNoop {
		return
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			outcome := w.Reconcile(ctx)
			if outcome == OutcomeTerminal || outcome == OutcomeNoop {
				return
			}
		}
	}
}

// Reconcile performs one tick of the state machine.
func (w *Watcher) Reconcile(ctx context.Context) Outcome {
	slot, err := w.store.GetSolicitation(ctx, w.session.UserID)
	if err != nil {
		log.Printf("⚠️ role-watch: slot read failed for user %d: %v", w.session.UserID, err)
		return OutcomeStale
	}

	// No slot, or a slot another user left behind: nothing to watch
	if slot == nil || slot.UserID != w.session.UserID {
		return OutcomeNoop
	}

	switch slot.Status {
	case prefs.StatusNegada:
		return OutcomeTerminal

	case prefs.StatusAprovada:
		// Already approved but the one-time notice was never consumed
		// and the session still reads non-elevated: the user has not
		// re-logged-in with the new role yet, so surface the notice.
		if !slot.Notified && !w.session.Elevated() {
			w.signalPromotion(ctx, slot)
		}
		return OutcomeTerminal

	case prefs.StatusPendente:
		// Guard rail: a session that already carries an elevated role
		// means the user re-logged-in with new permissions. Settle the
		// slot without notifying again.
		if w.session.Elevated() {
			if err := w.store.UpdateSolicitationStatus(ctx, w.session.UserID, prefs.StatusAprovada); err != nil {
				return OutcomeStale
			}
			w.markNotified(ctx)
			return OutcomeTerminal
		}
		return w.checkBackend(ctx)

	default:
		return OutcomeNoop
	}
}

// checkBackend asks the authoritative status and applies any transition.
// A failed or empty check keeps PENDENTE and retries next tick.
func (w *Watcher) checkBackend(ctx context.Context) Outcome {
	status, _ := w.checker.CheckRequestStatus(ctx, w.session.UserID, w.session.Token)
	if status == nil {
		return OutcomeStale
	}

	switch status.Status {
	case prefs.StatusAprovada:
		if err := w.store.UpdateSolicitationStatus(ctx, w.session.UserID, prefs.StatusAprovada); err != nil {
			return OutcomeStale
		}
		slot, _ := w.store.GetSolicitation(ctx, w.session.UserID)
		if slot != nil {
			w.signalPromotion(ctx, slot)
		}
		return OutcomeTerminal

	case prefs.StatusNegada:
		// Denial updates silently: no notice, no modal
		if err := w.store.UpdateSolicitationStatus(ctx, w.session.UserID, prefs.StatusNegada); err != nil {
			return OutcomeStale
		}
		return OutcomeTerminal
	}

	// Still PENDENTE on the backend side: the next tick checks again
	return OutcomePending
}

// signalPromotion delivers the promotion notice exactly once per watcher
// and marks the slot consumed so later mounts stay quiet.
func (w *Watcher) signalPromotion(ctx context.Context, slot *prefs.AdminSolicitation) {
	w.mu.Lock()
	if w.notified {
		w.mu.Unlock()
		return
	}
	w.notified = true
	w.mu.Unlock()

	if w.notifier != nil {
		w.notifier.PromotionApproved(ctx, slot.UserID, slot.UserName)
	}
	w.markNotified(ctx)
}

func (w *Watcher) markNotified(ctx context.Context) {
	if err := w.store.MarkNotified(ctx, w.session.UserID); err != nil {
		log.Printf("⚠️ role-watch: mark-notified failed for user %d: %v", w.session.UserID, err)
	}
}
