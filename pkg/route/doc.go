// Package route matches locations against an ordered table of path
// patterns, resolves RouteGroup membership, and classifies tab-group
// navigation moves. Group membership and tab classification share the
// same pattern-matching primitive rather than duplicating membership
// logic.
package route
