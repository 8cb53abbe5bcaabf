package nav

import (
	"testing"

	"github.com/backtrail-dev/backtrail/pkg/history"
)

func TestPartialMatches(t *testing.T) {
	loc := history.Location{
		Pathname: "/users/42",
		Search:   "?tab=posts",
		Key:      "k7",
		State:    map[string]any{"role": "admin", "page": 3},
	}

	tests := []struct {
		name    string
		partial Partial
		want    bool
	}{
		{"empty matches everything", Partial{}, true},
		{"pathname match", Partial{Pathname: "/users/42"}, true},
		{"pathname mismatch", Partial{Pathname: "/users/43"}, false},
		{"key match", Partial{Key: "k7"}, true},
		{"key mismatch", Partial{Key: "k8"}, false},
		{"state subset", Partial{State: map[string]any{"role": "admin"}}, true},
		{"state full", Partial{State: map[string]any{"role": "admin", "page": 3}}, true},
		{"state value mismatch", Partial{State: map[string]any{"role": "guest"}}, false},
		{"state key absent", Partial{State: map[string]any{"missing": 1}}, false},
		{"all fields", Partial{Pathname: "/users/42", Key: "k7", State: map[string]any{"page": 3}}, true},
		{"one field off", Partial{Pathname: "/users/42", Key: "wrong"}, false},
		{"search never checked", Partial{Pathname: "/users/42"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PartialMatches(loc, tt.partial); got != tt.want {
				t.Errorf("PartialMatches(%+v) = %v, want %v", tt.partial, got, tt.want)
			}
		})
	}
}

func TestPartialMatchesNilState(t *testing.T) {
	loc := history.Location{Pathname: "/a"}

	if !PartialMatches(loc, Partial{Pathname: "/a"}) {
		t.Error("pathname-only partial should match a stateless location")
	}
	if PartialMatches(loc, Partial{State: map[string]any{"x": 1}}) {
		t.Error("state partial matched a stateless location")
	}
}

func TestPartialMatchesDeepEquality(t *testing.T) {
	loc := history.Location{State: map[string]any{
		"filters": map[string]any{"status": "open"},
	}}

	if !PartialMatches(loc, Partial{State: map[string]any{
		"filters": map[string]any{"status": "open"},
	}}) {
		t.Error("structurally equal nested state did not match")
	}
	if PartialMatches(loc, Partial{State: map[string]any{
		"filters": map[string]any{"status": "closed"},
	}}) {
		t.Error("structurally different nested state matched")
	}
}
