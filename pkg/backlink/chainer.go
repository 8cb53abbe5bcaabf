package backlink

import (
	"log/slog"

	"github.com/backtrail-dev/backtrail/pkg/history"
)

// StateKey is the state-blob key under which the backlink is stored.
const StateKey = "previousLoc"

// Ref is a state-stripped snapshot of a predecessor entry. Only pathname
// and key are kept, which bounds the snapshot size and prevents chains of
// nested state from accumulating.
type Ref struct {
	Pathname string `json:"pathname"`
	Key      string `json:"key"`
}

// RefOf extracts the backlink attached to a location, if any.
func RefOf(loc history.Location) (Ref, bool) {
	switch v := loc.StateValue(StateKey).(type) {
	case Ref:
		return v, true
	case *Ref:
		if v != nil {
			return *v, true
		}
	case map[string]any:
		// Backlinks that round-tripped through JSON decode as generic maps.
		pathname, _ := v["pathname"].(string)
		key, _ := v["key"].(string)
		if pathname != "" || key != "" {
			return Ref{Pathname: pathname, Key: key}, true
		}
	}
	return Ref{}, false
}

// Chainer wraps a history stack and attaches a logical previous-location
// backlink to every non-pop navigation entry, forming a chain independent
// of native pop semantics. It is a wrapping adapter: the underlying
// stack's methods are never patched in place, and every observer attached
// through the Chainer sees entries only after they are tagged.
type Chainer struct {
	stack  history.Stack
	logger *slog.Logger
}

// Option configures a Chainer.
type Option func(*Chainer)

// WithLogger sets the logger used for integrity faults.
func WithLogger(l *slog.Logger) Option {
	return func(c *Chainer) {
		c.logger = l
	}
}

// New wraps stack in a Chainer. If the current entry has no key yet, a
// replace is forced so every entry in the chain is addressable.
func New(stack history.Stack, opts ...Option) *Chainer {
	c := &Chainer{
		stack:  stack,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cur := stack.Location(); cur.Key == "" {
		stack.Replace(cur.Path(), cur.State)
	}
	return c
}

// Location returns the current entry of the underlying stack.
func (c *Chainer) Location() history.Location {
	return c.stack.Location()
}

// Push appends a new entry carrying a backlink to the entry active just
// before this call.
func (c *Chainer) Push(path string, state map[string]any) {
	prev := c.stack.Location()
	c.stack.Push(path, withBacklink(state, Ref{Pathname: prev.Pathname, Key: prev.Key}))
	c.verify("push")
}

// Replace rewrites the current entry. An existing backlink on the entry
// being replaced is carried forward unchanged; replace never severs a
// chain and never computes a new backlink.
func (c *Chainer) Replace(path string, state map[string]any) {
	if ref, ok := RefOf(c.stack.Location()); ok {
		state = withBacklink(state, ref)
	}
	c.stack.Replace(path, state)
	c.verify("replace")
}

// Go moves the cursor by n entries. Pop-produced entries retrace
// backlinks attached by earlier pushes; no new backlink is computed.
func (c *Chainer) Go(n int) { c.stack.Go(n) }

// Back moves the cursor one entry back.
func (c *Chainer) Back() { c.stack.Back() }

// Forward moves the cursor one entry forward.
func (c *Chainer) Forward() { c.stack.Forward() }

// Listen registers a change listener on the underlying stack. Backlinks
// are attached synchronously inside Push/Replace, before the mutation is
// issued, so listeners always observe tagged entries.
func (c *Chainer) Listen(l history.Listener) func() {
	return c.stack.Listen(l)
}

// PreviousLocation returns the active entry's backlink, if it has one.
func (c *Chainer) PreviousLocation() (Ref, bool) {
	return RefOf(c.stack.Location())
}

// verify checks that the entry produced by a non-pop mutation carries a
// backlink. A miss is an advisory integrity fault: logged, never altering
// control flow.
func (c *Chainer) verify(op string) {
	loc := c.stack.Location()
	if _, ok := RefOf(loc); ok {
		return
	}
	c.logger.Error("backlink missing after non-pop mutation",
		"op", op,
		"pathname", loc.Pathname,
		"key", loc.Key,
	)
}

func withBacklink(state map[string]any, ref Ref) map[string]any {
	out := make(map[string]any, len(state)+1)
	for k, v := range state {
		out[k] = v
	}
	out[StateKey] = ref
	return out
}
