// Package nav provides the asynchronous navigation façade: awaitable
// push/replace/go/back/forward primitives and composite rewind
// operations, each executed under a reentrant navigation lock that
// freezes the location exposed to observers until the whole sequence
// completes. The lock gates rendering visibility, not mutation.
package nav
