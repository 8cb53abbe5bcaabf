package server

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/backtrail-dev/backtrail/pkg/history"
)

// RemoteStack drives a client's native history stack over the bridge
// connection and implements history.Stack for it. Mutations send a
// command and block until the client echoes the resulting update, so
// callers observe the same synchronous semantics as MemoryStack: when a
// mutation returns, Location() reflects it and the listener has fired.
type RemoteStack struct {
	send func(Command) error

	seq atomic.Uint64

	mu        sync.Mutex
	current   history.Location
	listeners map[int]history.Listener
	nextLid   int
	waiters   map[uint64]chan struct{}
}

// newRemoteStack creates a stack anchored at the client's hello
// location. send transmits one command to the client.
func newRemoteStack(initial history.Location, send func(Command) error) *RemoteStack {
	return &RemoteStack{
		send:      send,
		current:   initial,
		listeners: make(map[int]history.Listener),
		waiters:   make(map[uint64]chan struct{}),
	}
}

// Location returns the last location reported by the client.
func (r *RemoteStack) Location() history.Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Push sends a push command and blocks until the client's update.
func (r *RemoteStack) Push(path string, state map[string]any) {
	r.issue(Command{Type: CmdPush, Path: path, State: state})
}

// Replace sends a replace command and blocks until the client's update.
func (r *RemoteStack) Replace(path string, state map[string]any) {
	r.issue(Command{Type: CmdReplace, Path: path, State: state})
}

// Go sends a cursor move and blocks until the client's update. A move
// the client clamps as out-of-range never produces an update; like the
// native stack itself, that leaves the caller waiting.
func (r *RemoteStack) Go(n int) {
	if n == 0 {
		return
	}
	r.issue(Command{Type: CmdGo, Delta: n})
}

// Back moves the cursor one entry back.
func (r *RemoteStack) Back() { r.Go(-1) }

// Forward moves the cursor one entry forward.
func (r *RemoteStack) Forward() { r.Go(1) }

// Listen registers a change listener. Listeners fire from the bridge
// read loop as client updates arrive.
func (r *RemoteStack) Listen(l history.Listener) func() {
	r.mu.Lock()
	id := r.nextLid
	r.nextLid++
	r.listeners[id] = l
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// issue assigns a sequence, registers the echo waiter, transmits, and
// blocks until applyUpdate releases the waiter. A failed send releases
// immediately: the connection is gone and the update will never come.
func (r *RemoteStack) issue(cmd Command) {
	cmd.Seq = r.seq.Add(1)

	done := make(chan struct{})
	r.mu.Lock()
	r.waiters[cmd.Seq] = done
	r.mu.Unlock()

	if err := r.send(cmd); err != nil {
		r.mu.Lock()
		delete(r.waiters, cmd.Seq)
		r.mu.Unlock()
		return
	}

	<-done
}

// applyUpdate ingests one client update: the cached location advances,
// the matching command waiter (if any) releases, and listeners fire.
// Called from the bridge read loop.
func (r *RemoteStack) applyUpdate(loc history.Location, action history.Action, seq uint64) {
	r.mu.Lock()
	r.current = loc
	if done, ok := r.waiters[seq]; ok {
		delete(r.waiters, seq)
		close(done)
	}
	listeners := make([]history.Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l(history.Update{Location: loc, Action: action})
	}
}

// closeWaiters releases every pending mutation when the connection
// drops, so no goroutine stays blocked on a dead socket.
func (r *RemoteStack) closeWaiters() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for seq, done := range r.waiters {
		delete(r.waiters, seq)
		close(done)
	}
}
