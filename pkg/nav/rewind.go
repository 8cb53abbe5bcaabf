package nav

import (
	"github.com/backtrail-dev/backtrail/pkg/history"
)

// BackToKey rewinds the stack one guarded step at a time until the
// active entry's key equals key, reporting true on arrival. If the
// backlink chain exhausts first, the stack is restored to the exact
// starting entry by replaying the same number of forward steps, the
// fallback (if any) is pushed as a new entry, and false is reported.
// The visible outcome is always "landed on the target" or "back at the
// original position, optionally plus one pushed fallback" — never a
// strand mid-stack.
func (c *Controller) BackToKey(key string, fallback *Fallback) bool {
	return c.rewind("back_to_key", func(loc history.Location) bool {
		return loc.Key == key
	}, fallback, true)
}

// BackToMatch is BackToKey with an arbitrary predicate over the active
// entry.
func (c *Controller) BackToMatch(pred func(history.Location) bool, fallback *Fallback) bool {
	return c.rewind("back_to_match", pred, fallback, true)
}

// BackUntil is the legacy rewind. The loop is the same as BackToMatch,
// but on exhaustion the starting position is NOT restored: the oldest
// reachable entry is rewritten in place with the fallback, permanently
// shortening the stack. The two exhaustion behaviors are intentionally
// distinct operations; do not unify them.
func (c *Controller) BackUntil(pred func(history.Location) bool, fallback *Fallback) bool {
	return c.rewind("back_until", pred, fallback, false)
}

// rewind is the shared composite loop. Steps run strictly sequentially:
// each must observe its resulting location before deciding to continue.
// The whole loop, including recovery, runs under one lock acquisition so
// intermediate positions are never rendered.
func (c *Controller) rewind(name string, pred func(history.Location) bool, fallback *Fallback, restore bool) bool {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: name}
	c.run(op, func() {
		op.Result = c.rewindCore(op, pred, fallback, restore)
	})
	return op.Result
}

func (c *Controller) rewindCore(op *Operation, pred func(history.Location) bool, fallback *Fallback, restore bool) bool {
	for {
		if pred(c.chain.Location()) {
			return true
		}
		if !c.backStep(true) {
			break
		}
		op.Steps++
	}

	// Exhausted the backlink chain without finding the target.
	if restore {
		backSteps := op.Steps
		for i := 0; i < backSteps; i++ {
			c.forwardStep()
			op.Steps++
		}
		if fallback != nil {
			ch := c.nextChange()
			c.chain.Push(fallback.Path, fallback.State)
			<-ch
			op.Steps++
		}
		return false
	}

	// Legacy behavior: rewrite the oldest reachable entry in place.
	if fallback != nil {
		ch := c.nextChange()
		c.chain.Replace(fallback.Path, fallback.State)
		<-ch
	}
	return false
}
