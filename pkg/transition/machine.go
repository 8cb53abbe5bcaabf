package transition

import (
	"sync"

	"github.com/backtrail-dev/backtrail/pkg/backlink"
	"github.com/backtrail-dev/backtrail/pkg/history"
	"github.com/backtrail-dev/backtrail/pkg/route"
)

// TransitionStateKey is the state-blob key that overrides transition
// behavior per entry: an explicit false suppresses animation, an
// explicit true forces it even for a replace.
const TransitionStateKey = "transition"

// State is the machine state.
type State int

const (
	// Steady renders a single active screen.
	Steady State = iota

	// Transitioning keeps the outgoing screen mounted alongside the
	// incoming one for one extra render cycle.
	Transitioning
)

// Frame describes one qualifying location change. It drives exactly one
// extra render+animation cycle before being discarded.
type Frame struct {
	// Location is the incoming location.
	Location history.Location

	// Key is the incoming location's key.
	Key string

	// IsNextPage is true when the change reads as forward motion, false
	// when the outgoing entry's backlink already pointed at the incoming
	// location (a backward step observed through a push-shaped action).
	IsNextPage bool

	// RenderPrevious keeps the outgoing screen mounted this cycle.
	RenderPrevious bool

	// Animate is false for plain swaps (same RouteGroup, or suppressed
	// via the transition state key).
	Animate bool
}

// Screen pairs a resolved route with the location that activated it.
type Screen struct {
	Resolution route.Resolution
	Location   history.Location
}

// Viewport is the render output: one active screen, or two transiently
// while a transition window is open, plus the derived direction flag for
// animation parameterization.
type Viewport struct {
	// Active is the incoming screen; nil when no route matched.
	Active *Screen

	// Outgoing is the retained previous screen during a transition
	// window, nil otherwise.
	Outgoing *Screen

	// Forward mirrors the current frame's IsNextPage.
	Forward bool
}

// Machine observes location changes and decides, per change, whether to
// animate, in which direction, and how long to keep the outgoing screen
// mounted. It is fed from a guarded listener, so locations frozen under
// the navigation lock never reach it.
type Machine struct {
	mu    sync.Mutex
	table *route.Table

	state    State
	current  history.Location
	active   *Screen // nil on route miss
	from     history.Location
	hasFrom  bool
	outgoing *Screen
	frame    *Frame
}

// NewMachine creates a machine anchored at the start location.
func NewMachine(table *route.Table, start history.Location) *Machine {
	m := &Machine{
		table:   table,
		current: start,
	}
	m.active = m.resolve(start)
	return m
}

// resolve maps a location to a screen, or nil on a routing miss (the
// table logs the miss; nothing renders).
func (m *Machine) resolve(loc history.Location) *Screen {
	res, ok := m.table.Resolve(loc.Pathname)
	if !ok {
		return nil
	}
	return &Screen{Resolution: res, Location: loc}
}

// Observe feeds one location change into the machine.
func (m *Machine) Observe(loc history.Location, action history.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.current
	prevActive := m.active
	next := m.resolve(loc)

	forced, explicit := transitionOverride(loc)

	// An explicit transition:false, or a replace with nothing set,
	// adopts the new location with no exit animation and no retained
	// screen. The remembered "from" location stays as it was, for
	// future comparisons.
	if (explicit && !forced) || (!explicit && action == history.ActionReplace) {
		m.current = loc
		m.active = next
		m.state = Steady
		m.outgoing = nil
		m.frame = nil
		return
	}

	sameGroup := prevActive != nil && next != nil &&
		route.SameGroup(prevActive.Resolution, next.Resolution)
	differs := prev.Pathname != loc.Pathname || prev.Search != loc.Search

	if !differs && !forced {
		// Nothing qualifying changed (key-only or state-only update).
		m.current = loc
		m.active = next
		return
	}

	if sameGroup {
		// Same animation unit: plain swap, no retained screen,
		// regardless of computed direction.
		m.current = loc
		m.active = next
		m.from = prev
		m.hasFrom = true
		m.state = Steady
		m.outgoing = nil
		m.frame = &Frame{
			Location:   loc,
			Key:        loc.Key,
			IsNextPage: m.isNextPage(prev, loc),
			Animate:    false,
		}
		return
	}

	m.from = prev
	m.hasFrom = true
	m.outgoing = prevActive
	m.current = loc
	m.active = next
	m.state = Transitioning
	m.frame = &Frame{
		Location:       loc,
		Key:            loc.Key,
		IsNextPage:     m.isNextPage(prev, loc),
		RenderPrevious: true,
		Animate:        true,
	}
}

// isNextPage decides direction: false when the outgoing entry's backlink
// already equals the incoming location, which means a backward step was
// observed through a push-shaped action.
func (m *Machine) isNextPage(from, to history.Location) bool {
	if ref, ok := backlink.RefOf(from); ok {
		if ref.Pathname == to.Pathname && ref.Key == to.Key {
			return false
		}
	}
	return true
}

// CompleteTransition is called by the animation wrapper when the
// enter/exit animation finishes. The outgoing screen drops and the
// machine returns to Steady; the frame is cleared one update later.
func (m *Machine) CompleteTransition() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Transitioning {
		return
	}
	m.state = Steady
	m.outgoing = nil
	if m.frame != nil {
		m.frame.RenderPrevious = false
	}
}

// State returns the machine state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Frame returns the current transition frame, if a qualifying change is
// being presented.
func (m *Machine) Frame() (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frame == nil {
		return Frame{}, false
	}
	return *m.frame, true
}

// Viewport returns the current render output.
func (m *Machine) Viewport() Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := Viewport{Active: m.active}
	if m.state == Transitioning {
		v.Outgoing = m.outgoing
	}
	if m.frame != nil {
		v.Forward = m.frame.IsNextPage
	}
	return v
}

// transitionOverride reads the per-entry transition override: forced
// reports the value, explicit whether one was set at all.
func transitionOverride(loc history.Location) (forced, explicit bool) {
	v := loc.StateValue(TransitionStateKey)
	if v == nil {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		return false, false
	}
	return b, true
}
