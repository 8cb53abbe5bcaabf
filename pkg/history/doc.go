// Package history defines the native history stack abstraction that the
// rest of Backtrail coordinates over: a linear sequence of keyed entries
// with push/replace mutation, a forward/back cursor, and change
// notifications. The stack exposes only adjacency; richer relations
// (backlinks, transitions) are layered on top by other packages.
//
// MemoryStack is the in-process implementation used directly in tests and
// embedded apps. Remote stacks (for example the WebSocket bridge in
// pkg/server) implement the same Stack interface.
package history
