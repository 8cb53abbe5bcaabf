package history

// Action describes how a location change was produced.
type Action int

const (
	// ActionPush means a new entry was appended to the stack.
	ActionPush Action = iota

	// ActionReplace means the current entry was rewritten in place.
	ActionReplace

	// ActionPop means the cursor moved to an existing entry (back/forward).
	ActionPop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionPush:
		return "PUSH"
	case ActionReplace:
		return "REPLACE"
	case ActionPop:
		return "POP"
	default:
		return "UNKNOWN"
	}
}

// Location describes one entry of the history stack.
// Entries are immutable once created; State is deep-copied on write.
type Location struct {
	// Pathname is the path portion ("/users/42").
	Pathname string

	// Search is the query string including the leading "?" ("" if none).
	Search string

	// Hash is the fragment including the leading "#" ("" if none).
	Hash string

	// Key uniquely identifies this entry within the stack.
	Key string

	// State is the per-entry state blob owned by the caller.
	State map[string]any
}

// Path returns pathname+search+hash as a single string.
func (l Location) Path() string {
	return l.Pathname + l.Search + l.Hash
}

// StateValue returns the named state value, or nil if the state blob
// is absent or the key is missing.
func (l Location) StateValue(key string) any {
	if l.State == nil {
		return nil
	}
	return l.State[key]
}

// Update is the payload of a change notification.
type Update struct {
	Location Location
	Action   Action
}

// Listener receives change notifications. One mutation produces exactly
// one notification.
type Listener func(Update)

// Stack is the native history stack: a linear sequence of entries with
// push/replace mutation and a forward/back cursor. Implementations must
// deliver exactly one notification per effective mutation, after the new
// location is observable via Location().
type Stack interface {
	// Location returns the entry the cursor currently points at.
	Location() Location

	// Push appends a new entry after the cursor, dropping any forward
	// entries, and moves the cursor to it.
	Push(path string, state map[string]any)

	// Replace rewrites the entry at the cursor in place.
	Replace(path string, state map[string]any)

	// Go moves the cursor by n entries (negative is back). Out-of-range
	// moves are no-ops.
	Go(n int)

	// Back is shorthand for Go(-1).
	Back()

	// Forward is shorthand for Go(1).
	Forward()

	// Listen registers a change listener and returns a detach function.
	Listen(l Listener) (detach func())
}

// cloneState copies a state blob one level deep. Nested values are shared;
// entries never mutate them after creation.
func cloneState(state map[string]any) map[string]any {
	if state == nil {
		return nil
	}
	out := make(map[string]any, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
}
