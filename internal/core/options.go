package core

import (
	"sdrfcore/internal/termsource"
)

// ServiceOption customizes service construction.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	logger   Logger
	clock    Clock
	metrics  MetricsRecorder
	resolver termsource.Resolver
	catalog  *termsource.Catalog
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  noopLogger{},
		clock:   defaultClock(),
		metrics: noopMetrics{},
	}
}

// WithLogger routes service logging to the supplied logger.
func WithLogger(logger Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithMetrics records operation outcomes through the supplied recorder.
func WithMetrics(metrics MetricsRecorder) ServiceOption {
	return func(o *serviceOptions) {
		if metrics != nil {
			o.metrics = metrics
		}
	}
}

// WithResolver enables term-source validation through the supplied resolver.
func WithResolver(resolver termsource.Resolver) ServiceOption {
	return func(o *serviceOptions) { o.resolver = resolver }
}

// WithCatalog restricts term-source references to vocabularies declared in
// the catalog.
func WithCatalog(catalog *termsource.Catalog) ServiceOption {
	return func(o *serviceOptions) { o.catalog = catalog }
}
