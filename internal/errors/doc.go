// Package errors provides structured errors with stable codes for
// Backtrail. Each code is registered with a category, message, and
// documentation link; call sites create errors via New(code) and attach
// detail with the builder methods.
package errors
