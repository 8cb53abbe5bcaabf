package nav

import (
	"reflect"

	"github.com/backtrail-dev/backtrail/pkg/history"
)

// Partial is a partial location description for matching. Empty Key and
// Pathname are wildcards; state keys absent from State are wildcards.
// Search and hash are never checked.
type Partial struct {
	Pathname string
	Key      string
	State    map[string]any
}

// PartialMatches reports whether loc satisfies partial: key and pathname
// must equal exactly when present, and every key present in
// partial.State must equal the corresponding value in loc.State.
func PartialMatches(loc history.Location, partial Partial) bool {
	if partial.Key != "" && partial.Key != loc.Key {
		return false
	}
	if partial.Pathname != "" && partial.Pathname != loc.Pathname {
		return false
	}
	for k, want := range partial.State {
		got := loc.StateValue(k)
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// MatchesPartial adapts a Partial into a rewind predicate, for use with
// BackToMatch and BackUntil.
func MatchesPartial(partial Partial) func(history.Location) bool {
	return func(loc history.Location) bool {
		return PartialMatches(loc, partial)
	}
}
