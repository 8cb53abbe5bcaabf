package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/backtrail-dev/backtrail/pkg/nav"
)

// Default tracer name for Backtrail applications.
const defaultTracerName = "backtrail"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "backtrail").
	TracerName string

	// Filter determines which operations to trace.
	// Return true to trace the operation, false to skip.
	// If nil, all operations are traced.
	Filter func(op *nav.Operation) bool

	// AttributeExtractor extracts custom attributes per operation.
	AttributeExtractor func(op *nav.Operation) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithOperationFilter sets a filter function for operations.
func WithOperationFilter(filter func(op *nav.Operation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(op *nav.Operation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every navigation
// operation.
//
// The middleware:
//   - Creates one span per operation ("backtrail.push",
//     "backtrail.back_to_key", ...)
//   - Records the target path, resolved result, and composite step count
//   - Records errors and sets span status
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before navigating:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) nav.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	return nav.MiddlewareFunc(func(op *nav.Operation, next func() error) error {
		if config.Filter != nil && !config.Filter(op) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("backtrail.op", op.Name),
		}
		if op.Path != "" {
			attrs = append(attrs, attribute.String("backtrail.path", op.Path))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(op)...)
		}

		_, span := config.tracer.Start(
			context.Background(),
			"backtrail."+op.Name,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		err := next()

		span.SetAttributes(
			attribute.Bool("backtrail.resolved", op.Result),
			attribute.Int("backtrail.steps", op.Steps),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}
