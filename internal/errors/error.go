package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryContract  Category = "contract"
	CategoryIntegrity Category = "integrity"
	CategoryRouting   Category = "routing"
	CategoryProtocol  Category = "protocol"
	CategoryConfig    Category = "config"
	CategoryRuntime   Category = "runtime"
)

// NavError is a structured error with a registered code, a fix
// suggestion, and documentation pointer.
type NavError struct {
	// Code is a unique error identifier (e.g., "N001").
	Code string

	// Category is the error type (contract, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NavError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NavError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NavError) WithSuggestion(s string) *NavError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *NavError) WithDetail(d string) *NavError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *NavError) Wrap(err error) *NavError {
	e.Wrapped = err
	return e
}

// New creates a NavError from a registered error code.
func New(code string) *NavError {
	template, ok := registry[code]
	if !ok {
		return &NavError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NavError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new NavError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NavError {
	return &NavError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NavError.
func FromError(err error, code string) *NavError {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*NavError); ok {
		return ne
	}
	return New(code).Wrap(err)
}
