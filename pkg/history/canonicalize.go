package history

import (
	"errors"
	"strings"
)

// SplitPath separates a path string into pathname, search, and hash.
// Search keeps its leading "?" and hash its leading "#"; either may be
// empty. The hash is split first, so a "?" inside the fragment stays in
// the fragment.
func SplitPath(path string) (pathname, search, hash string) {
	pathname = path
	if i := strings.Index(pathname, "#"); i >= 0 {
		hash = pathname[i:]
		pathname = pathname[:i]
	}
	if i := strings.Index(pathname, "?"); i >= 0 {
		search = pathname[i:]
		pathname = pathname[:i]
	}
	if pathname == "" {
		pathname = "/"
	}
	return pathname, search, hash
}

// CanonicalizePath normalizes a pathname for navigation.
// It splits off the query, ensures a leading slash, collapses duplicate
// slashes, and strips a trailing slash (except root). Backslash and NUL
// are rejected.
func CanonicalizePath(path string) (canonPath, query string, changed bool, err error) {
	if path == "" {
		return "/", "", true, nil
	}

	canonPath, query, _ = strings.Cut(path, "?")

	if strings.Contains(canonPath, "\\") {
		return "", "", false, errors.New("path contains backslash")
	}
	if strings.Contains(canonPath, "\x00") {
		return "", "", false, errors.New("path contains null byte")
	}

	original := canonPath

	if !strings.HasPrefix(canonPath, "/") {
		canonPath = "/" + canonPath
	}

	for strings.Contains(canonPath, "//") {
		canonPath = strings.ReplaceAll(canonPath, "//", "/")
	}

	if len(canonPath) > 1 && strings.HasSuffix(canonPath, "/") {
		canonPath = strings.TrimSuffix(canonPath, "/")
	}

	return canonPath, query, canonPath != original, nil
}
