package history

import (
	"fmt"
	"sync"
)

// MemoryStack is an in-process Stack implementation. It mirrors browser
// memory-history semantics: a linear entry slice plus a cursor, with
// generated keys and synchronous listener dispatch in the mutating
// goroutine.
type MemoryStack struct {
	mu        sync.Mutex
	entries   []Location
	index     int
	nextKey   int
	listeners map[int]Listener
	nextLid   int
}

// NewMemoryStack creates a stack with a single initial entry for path.
// An empty path starts at "/". The initial entry carries a key, matching
// browsers after the first replace.
func NewMemoryStack(path string, state map[string]any) *MemoryStack {
	if path == "" {
		path = "/"
	}
	s := &MemoryStack{
		listeners: make(map[int]Listener),
	}
	loc := s.makeLocation(path, state)
	s.entries = []Location{loc}
	return s
}

// Location returns the entry at the cursor.
func (s *MemoryStack) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.index]
}

// Length returns the number of entries in the stack.
func (s *MemoryStack) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the cursor position.
func (s *MemoryStack) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Push appends a new entry after the cursor, dropping forward entries.
func (s *MemoryStack) Push(path string, state map[string]any) {
	s.mu.Lock()
	loc := s.makeLocation(path, state)
	s.entries = append(s.entries[:s.index+1], loc)
	s.index = len(s.entries) - 1
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Update{Location: loc, Action: ActionPush})
}

// Replace rewrites the entry at the cursor.
func (s *MemoryStack) Replace(path string, state map[string]any) {
	s.mu.Lock()
	loc := s.makeLocation(path, state)
	s.entries[s.index] = loc
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Update{Location: loc, Action: ActionReplace})
}

// Go moves the cursor by n entries. Out-of-range moves are no-ops and
// produce no notification.
func (s *MemoryStack) Go(n int) {
	s.mu.Lock()
	target := s.index + n
	if n == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	s.index = target
	loc := s.entries[s.index]
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Update{Location: loc, Action: ActionPop})
}

// Back moves the cursor one entry back.
func (s *MemoryStack) Back() { s.Go(-1) }

// Forward moves the cursor one entry forward.
func (s *MemoryStack) Forward() { s.Go(1) }

// Listen registers a change listener. The returned detach function is
// idempotent.
func (s *MemoryStack) Listen(l Listener) func() {
	s.mu.Lock()
	id := s.nextLid
	s.nextLid++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// makeLocation parses path and mints a keyed entry. Caller holds s.mu.
func (s *MemoryStack) makeLocation(path string, state map[string]any) Location {
	pathname, search, hash := SplitPath(path)
	s.nextKey++
	return Location{
		Pathname: pathname,
		Search:   search,
		Hash:     hash,
		Key:      fmt.Sprintf("k%d", s.nextKey),
		State:    cloneState(state),
	}
}

// snapshotListeners copies the listener set so dispatch happens outside
// the stack lock. Caller holds s.mu.
func (s *MemoryStack) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, u Update) {
	for _, l := range listeners {
		l(u)
	}
}
