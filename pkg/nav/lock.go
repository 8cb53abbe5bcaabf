package nav

import (
	"sync"

	"github.com/backtrail-dev/backtrail/internal/errors"
	"github.com/backtrail-dev/backtrail/pkg/history"
)

// lockState is the reentrant navigation gate: a small explicit state
// machine {Unlocked, Locked(snapshot, count)}. While locked, the frozen
// snapshot is shown to consumers in place of the live location and
// guarded listeners receive nothing; the last update swallowed under the
// lock is republished when the count returns to zero.
type lockState struct {
	mu      sync.Mutex
	count   int
	frozen  *history.Location
	pending *history.Update
}

// acquire transitions 0→1 by capturing live as the frozen snapshot, or
// increments the count for reentrant holders. A frozen snapshot left
// behind by an unrelated sequence at depth zero is a programming error
// and panics.
func (l *lockState) acquire(live history.Location) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		if l.frozen != nil {
			panic(errors.New(errors.CodeLockContract))
		}
		snapshot := live
		l.frozen = &snapshot
	}
	l.count++
}

// release decrements the count. When it reaches zero the frozen snapshot
// clears and the update swallowed last under the lock (if any) is
// returned for republication.
func (l *lockState) release() (republish *history.Update) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count == 0 {
		return nil
	}
	l.count--
	if l.count > 0 {
		return nil
	}
	l.frozen = nil
	republish = l.pending
	l.pending = nil
	return republish
}

// observe gates an update. Locked: the update is swallowed and remembered
// for republication. Unlocked: the update passes through.
func (l *lockState) observe(u history.Update) (pass bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count > 0 {
		pending := u
		l.pending = &pending
		return false
	}
	return true
}

// snapshot returns the frozen location while locked.
func (l *lockState) snapshot() (history.Location, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.frozen != nil {
		return *l.frozen, true
	}
	return history.Location{}, false
}

// depth returns the current holder count.
func (l *lockState) depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
