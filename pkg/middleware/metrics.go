package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/backtrail-dev/backtrail/pkg/nav"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "backtrail").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "backtrail",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for Backtrail.
type metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	rewindSteps       prometheus.Histogram
	fallbacksTotal    prometheus.Counter
	updatesDropped    prometheus.Counter
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total navigation operations by name and resolved status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Navigation operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		rewindSteps: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rewind_steps",
			Help:        "Primitive steps taken by composite rewind operations",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),

		fallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rewind_fallbacks_total",
			Help:        "Composite rewinds that exhausted the backlink chain",
			ConstLabels: config.ConstLabels,
		}),

		updatesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_dropped_total",
			Help:        "Inbound bridge updates dropped by rate limiting",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for
// navigation operations.
//
// Metrics collected:
//   - backtrail_operations_total: Counter of operations by name and status
//   - backtrail_operation_duration_seconds: Histogram of operation duration
//   - backtrail_rewind_steps: Histogram of composite rewind step counts
//   - backtrail_rewind_fallbacks_total: Counter of exhausted rewinds
//   - backtrail_updates_dropped_total: Counter of rate-limited updates
//     (incremented via RecordUpdateDropped from the bridge)
//
// Example:
//
//	ctrl := nav.NewController(chain,
//	    nav.WithMiddleware(middleware.Prometheus(
//	        middleware.WithNamespace("myapp"),
//	    )),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) nav.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return nav.MiddlewareFunc(func(op *nav.Operation, next func() error) error {
		start := time.Now()

		err := next()

		m.operationDuration.WithLabelValues(op.Name).Observe(time.Since(start).Seconds())

		status := "resolved"
		if !op.Result {
			status = "exhausted"
		}
		if err != nil {
			status = "error"
		}
		m.operationsTotal.WithLabelValues(op.Name, status).Inc()

		if op.Steps > 0 {
			m.rewindSteps.Observe(float64(op.Steps))
		}
		if isComposite(op.Name) && !op.Result && err == nil {
			m.fallbacksTotal.Inc()
		}

		return err
	})
}

// isComposite reports whether op names a composite rewind.
func isComposite(op string) bool {
	switch op {
	case "back_to_key", "back_to_match", "back_until":
		return true
	}
	return false
}

// RecordUpdateDropped records one inbound update dropped by rate
// limiting. Call this from bridge code when the limiter rejects an
// update.
func RecordUpdateDropped() {
	if globalMetrics != nil {
		globalMetrics.updatesDropped.Inc()
	}
}
