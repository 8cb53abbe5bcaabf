// Package server bridges remote clients to the navigation pipeline over
// WebSocket. Each connection gets its own Session: a RemoteStack that
// drives the client's native history, wrapped by a backlink chain, an
// awaitable navigation controller, and a transition state machine.
//
// The wire protocol is command/echo: the server sends sequenced history
// commands, the client applies them to its native stack and echoes the
// resulting update carrying the same sequence number. Server-side
// mutations block until their echo arrives, preserving the synchronous
// observation semantics the rest of the pipeline depends on.
package server
