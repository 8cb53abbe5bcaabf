package route

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		pathname string
		exact    bool
		want     bool
	}{
		{"static exact", "/about", "/about", true, true},
		{"static mismatch", "/about", "/contact", true, false},
		{"root", "/", "/", true, true},
		{"root vs path exact", "/", "/about", true, false},
		{"root prefix", "/", "/about", false, true},
		{"param segment", "/users/:id", "/users/42", true, true},
		{"param exact rejects extra", "/users/:id", "/users/42/posts", true, false},
		{"param prefix allows extra", "/users/:id", "/users/42/posts", false, true},
		{"param missing segment", "/users/:id", "/users", true, false},
		{"catch-all", "*rest", "/anything/at/all", true, true},
		{"nested catch-all", "/files/*path", "/files/a/b/c.txt", true, true},
		{"nested catch-all miss", "/files/*path", "/docs/a", true, false},
		{"catch-all on empty remainder", "/files/*path", "/files", true, true},
		{"trailing slash equivalence", "/about/", "/about", true, true},
		{"two params", "/orgs/:org/repos/:repo", "/orgs/go/repos/tools", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.pattern, tt.pathname, tt.exact); got != tt.want {
				t.Errorf("Match(%q, %q, %v) = %v, want %v",
					tt.pattern, tt.pathname, tt.exact, got, tt.want)
			}
		})
	}
}
