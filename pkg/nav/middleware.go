package nav

// Operation describes one façade operation as seen by middleware. Fields
// are populated before the chain runs; Steps and Result are updated by
// the core operation and are readable after next() returns.
type Operation struct {
	// Name is the operation name ("push", "back_to_key", ...).
	Name string

	// Path is the target path, if the operation has one.
	Path string

	// Steps is the number of primitive back/forward steps a composite
	// operation performed.
	Steps int

	// Result is the resolved boolean for guarded and composite
	// operations; true for operations that cannot fail.
	Result bool
}

// Middleware observes and wraps façade operations. Return an error to
// stop the chain; returning without calling next skips the operation.
type Middleware interface {
	Handle(op *Operation, next func() error) error
}

// MiddlewareFunc is a function adapter for Middleware.
type MiddlewareFunc func(op *Operation, next func() error) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(op *Operation, next func() error) error {
	return f(op, next)
}
