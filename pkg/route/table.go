package route

import (
	"log/slog"

	"github.com/backtrail-dev/backtrail/internal/errors"
)

// Route is one screen definition: the first route whose pattern matches
// a location's pathname is active.
type Route struct {
	// Pattern is the path pattern ("/users/:id").
	Pattern string

	// Exact requires the full pathname to match, not just a prefix.
	Exact bool

	// Name identifies the screen for rendering and logs.
	Name string
}

// Group marks a route subtree as one animation and navigation unit.
// Transitions between two routes of the same group never animate.
// Groups nest exactly one level: a group holds plain routes only.
type Group struct {
	Name   string
	Routes []Route
}

// Entry is one ordered element of a Table: a route or a group node.
type Entry struct {
	route *Route
	group *Group
}

// RouteEntry wraps a plain route.
func RouteEntry(r Route) Entry { return Entry{route: &r} }

// GroupEntry wraps a group node.
func GroupEntry(g Group) Entry { return Entry{group: &g} }

// Resolution is the outcome of resolving a pathname against a table:
// the active route and the name of its enclosing group ("" if none).
type Resolution struct {
	Route Route
	Group string
}

// SameGroup reports whether two resolutions fall inside the same
// animation unit. Ungrouped routes are never in the same unit.
func SameGroup(a, b Resolution) bool {
	return a.Group != "" && a.Group == b.Group
}

// Table is an ordered sequence of route definitions, possibly nested one
// level under grouping nodes.
type Table struct {
	entries []Entry
	logger  *slog.Logger
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithTableLogger sets the logger used for routing misses.
func WithTableLogger(l *slog.Logger) TableOption {
	return func(t *Table) {
		t.logger = l
	}
}

// NewTable builds a table from ordered entries. Registration order is
// match order; put catch-alls last.
func NewTable(entries []Entry, opts ...TableOption) *Table {
	t := &Table{
		entries: entries,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resolve finds the first route whose pattern matches pathname. Group
// nodes are traversed transparently but remembered as the enclosing
// group. A miss is a developer-facing error: it is logged and nothing
// should render; register a catch-all route to guarantee a match.
func (t *Table) Resolve(pathname string) (Resolution, bool) {
	for _, e := range t.entries {
		if e.route != nil {
			if Match(e.route.Pattern, pathname, e.route.Exact) {
				return Resolution{Route: *e.route}, true
			}
			continue
		}
		for _, r := range e.group.Routes {
			if Match(r.Pattern, pathname, r.Exact) {
				return Resolution{Route: r, Group: e.group.Name}, true
			}
		}
	}

	err := errors.New(errors.CodeRouteMiss)
	t.logger.Error("no route matched location",
		"pathname", pathname,
		"code", err.Code,
	)
	return Resolution{}, false
}
