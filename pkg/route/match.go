package route

import "strings"

// Match reports whether pattern matches pathname. Patterns are segment
// sequences where ":name" matches any single segment and "*name" matches
// the rest of the path. With exact set, pathname may not have trailing
// segments beyond the pattern; otherwise a prefix match suffices.
func Match(pattern, pathname string, exact bool) bool {
	psegs := splitPath(pattern)
	segs := splitPath(pathname)

	for i, ps := range psegs {
		if strings.HasPrefix(ps, "*") {
			// Catch-all consumes the rest of the path.
			return true
		}
		if i >= len(segs) {
			return false
		}
		if strings.HasPrefix(ps, ":") {
			continue
		}
		if ps != segs[i] {
			return false
		}
	}

	if exact {
		return len(segs) == len(psegs)
	}
	return true
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
