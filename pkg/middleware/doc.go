// Package middleware provides instrumentation middleware for navigation
// operations: Prometheus metrics and OpenTelemetry tracing. Middleware
// wraps the nav.Controller operation pipeline via nav.WithMiddleware.
package middleware
