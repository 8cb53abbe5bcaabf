package route

import (
	"github.com/backtrail-dev/backtrail/pkg/backlink"
	"github.com/backtrail-dev/backtrail/pkg/history"
)

// Kind classifies how a same-group tab switch should mutate the stack.
type Kind int

const (
	// KindPush grows the stack: the move enters or leaves the group, or
	// starts from the group's index.
	KindPush Kind = iota

	// KindReplace rewrites the current entry: a direct switch among
	// non-index tabs, so the stack does not grow unboundedly.
	KindReplace

	// KindPop retraces a genuine prior visit back to the index.
	KindPop
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPush:
		return "PUSH"
	case KindReplace:
		return "REPLACE"
	case KindPop:
		return "POP"
	default:
		return "UNKNOWN"
	}
}

// TabGroup describes a tabbed navigation group by its path templates and
// the designated index template.
type TabGroup struct {
	// Patterns are the path templates of all tabs, index included.
	Patterns []string

	// Index is the template of the group's index tab.
	Index string
}

// Contains reports whether pathname matches any of the group's
// templates.
func (g TabGroup) Contains(pathname string) bool {
	for _, p := range g.Patterns {
		if Match(p, pathname, true) {
			return true
		}
	}
	return Match(g.Index, pathname, true)
}

// isIndex reports whether pathname matches the group's index template.
func (g TabGroup) isIndex(pathname string) bool {
	return Match(g.Index, pathname, true)
}

// Classify decides how moving from current to dest should behave within
// a tab group. prev is the current entry's recorded backlink, if any.
//
//   - PUSH: dest or origin lies outside the group, or the origin is the
//     index — leaving the group (or starting from its root) pushes
//     normally.
//   - POP: dest is the index and the backlink records that same index —
//     the move retraces a genuine prior visit.
//   - REPLACE: every other switch among the group's tabs, so same-group
//     hopping does not grow the native stack.
func Classify(g TabGroup, current history.Location, prev *backlink.Ref, dest string) Kind {
	if !g.Contains(dest) || !g.Contains(current.Pathname) || g.isIndex(current.Pathname) {
		return KindPush
	}
	if g.isIndex(dest) && prev != nil && g.isIndex(prev.Pathname) {
		return KindPop
	}
	return KindReplace
}
