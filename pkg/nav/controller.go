package nav

import (
	"log/slog"
	"sync"

	"github.com/backtrail-dev/backtrail/pkg/backlink"
	"github.com/backtrail-dev/backtrail/pkg/history"
)

// Fallback is the entry pushed (or written in place, for BackUntil) when
// a composite rewind exhausts the backlink chain without finding its
// target.
type Fallback struct {
	Path  string
	State map[string]any
}

// Controller is the asynchronous navigation façade. Every public
// operation blocks until the native stack delivers the change
// notification for its mutation, and executes under one lock acquisition
// spanning its whole duration, so observers attached through Listen see
// no interim locations — only the final one.
//
// Operations cannot be cancelled and have no timeouts; an operation
// awaiting a notification that never arrives blocks forever. The lock
// gates rendering visibility only, not mutation: two independently
// triggered sequences may interleave their mutations.
type Controller struct {
	chain  *backlink.Chainer
	logger *slog.Logger
	mw     []Middleware
	lock   lockState

	mu        sync.Mutex
	waiters   []chan history.Update
	listeners map[int]history.Listener
	nextLid   int

	detach func()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithMiddleware appends operation middleware, run in registration order.
func WithMiddleware(mw ...Middleware) ControllerOption {
	return func(c *Controller) {
		c.mw = append(c.mw, mw...)
	}
}

// WithControllerLogger sets the controller's logger.
func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController builds a façade over a backlink chainer.
func NewController(chain *backlink.Chainer, opts ...ControllerOption) *Controller {
	c := &Controller{
		chain:     chain,
		logger:    slog.Default(),
		listeners: make(map[int]history.Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.detach = chain.Listen(c.onUpdate)
	return c
}

// Close detaches the controller from the stack.
func (c *Controller) Close() {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
}

// Location returns the location visible to consumers: the frozen
// snapshot while a coordinated navigation holds the lock, the live
// location otherwise.
func (c *Controller) Location() history.Location {
	if frozen, ok := c.lock.snapshot(); ok {
		return frozen
	}
	return c.chain.Location()
}

// PreviousLocation returns the active entry's backlink, if any.
func (c *Controller) PreviousLocation() (backlink.Ref, bool) {
	return c.chain.PreviousLocation()
}

// Listen registers a guarded listener: it receives updates only while
// the lock is not held. Updates swallowed under the lock are collapsed
// into a single republication of the final location on release.
func (c *Controller) Listen(l history.Listener) func() {
	c.mu.Lock()
	id := c.nextLid
	c.nextLid++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Lock freezes the location exposed through Location and Listen and
// returns a one-shot release. Acquisitions nest: N calls need N releases
// before the live location reappears. Release beyond the first call on
// the same token is a no-op.
func (c *Controller) Lock() (unlock func()) {
	c.lock.acquire(c.chain.Location())

	var once sync.Once
	return func() {
		once.Do(func() {
			if republish := c.lock.release(); republish != nil {
				c.fanOut(history.Update{
					Location: c.chain.Location(),
					Action:   republish.Action,
				})
			}
		})
	}
}

// onUpdate is the internal stack listener. Waiters (pending façade
// operations) are served unconditionally; guarded listeners only see the
// update if the lock is not held.
func (c *Controller) onUpdate(u history.Update) {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- u
	}

	if c.lock.observe(u) {
		c.fanOut(u)
	}
}

func (c *Controller) fanOut(u history.Update) {
	c.mu.Lock()
	listeners := make([]history.Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(u)
	}
}

// nextChange registers a one-shot waiter. Register before issuing the
// mutation: stacks with synchronous dispatch notify during the mutating
// call itself.
func (c *Controller) nextChange() <-chan history.Update {
	ch := make(chan history.Update, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	return ch
}

// run executes op's core through the middleware chain.
func (c *Controller) run(op *Operation, core func()) {
	handler := func() error {
		core()
		return nil
	}
	for i := len(c.mw) - 1; i >= 0; i-- {
		mw := c.mw[i]
		next := handler
		handler = func() error {
			return mw.Handle(op, next)
		}
	}
	if err := handler(); err != nil {
		c.logger.Warn("navigation middleware aborted operation",
			"op", op.Name, "err", err)
	}
}

// GoAsync moves the cursor by n entries and blocks until the resulting
// change notification.
func (c *Controller) GoAsync(n int) {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: "go", Result: true}
	c.run(op, func() {
		ch := c.nextChange()
		c.chain.Go(n)
		<-ch
	})
}

// PushAsync appends a new entry and blocks until its change notification.
func (c *Controller) PushAsync(path string, state map[string]any) {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: "push", Path: path, Result: true}
	c.run(op, func() {
		ch := c.nextChange()
		c.chain.Push(path, state)
		<-ch
	})
}

// ReplaceAsync rewrites the current entry and blocks until its change
// notification.
func (c *Controller) ReplaceAsync(path string, state map[string]any) {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: "replace", Path: path, Result: true}
	c.run(op, func() {
		ch := c.nextChange()
		c.chain.Replace(path, state)
		<-ch
	})
}

// ForwardAsync moves one step forward. It always reports true: the
// native stack exposes no reliable forward boundary.
func (c *Controller) ForwardAsync() bool {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: "forward"}
	c.run(op, func() {
		op.Result = c.forwardStep()
	})
	return op.Result
}

// BackAsync moves one step back. With preventLeavingApp set it refuses
// to move when the active entry has no backlink — exhausted app-local
// history rather than a step that would leave the app — performing no
// mutation and reporting false.
func (c *Controller) BackAsync(preventLeavingApp bool) bool {
	unlock := c.Lock()
	defer unlock()

	op := &Operation{Name: "back"}
	c.run(op, func() {
		op.Result = c.backStep(preventLeavingApp)
	})
	return op.Result
}

// backStep is the unguarded core of BackAsync; callers hold the lock.
func (c *Controller) backStep(preventLeavingApp bool) bool {
	if preventLeavingApp {
		if _, ok := c.chain.PreviousLocation(); !ok {
			return false
		}
	}
	ch := c.nextChange()
	c.chain.Back()
	<-ch
	return true
}

// forwardStep is the unguarded core of ForwardAsync; callers hold the
// lock.
func (c *Controller) forwardStep() bool {
	ch := c.nextChange()
	c.chain.Forward()
	<-ch
	return true
}
