package engine

import (
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rdfquad/rdfquad/internal/errs"
	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/internal/xlog"
)

// Options configures an Engine. Construct with functional options, the
// configuration style the teacher's pkg/server.Server and
// internal/storage.NewBadgerStorage both use for their optional knobs.
type Options struct {
	logger *xlog.Logger
	tracer trace.Tracer
	stats  storage.Stats
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		logger: xlog.New(),
		tracer: noop.NewTracerProvider().Tracer("rdfquad/engine"),
	}
}

// WithLogger overrides the engine's logger.
func WithLogger(l *xlog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithTracer overrides the engine's otel tracer; by default spans are
// created against a no-op tracer so Select/Ask/Construct never pay
// tracing overhead
// unless the caller wires a real exporter.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) { o.tracer = t }
}

// WithStats supplies cardinality statistics (e.g. the quad store's own
// Stats implementation) for the optimizer's join reordering.
func WithStats(s storage.Stats) Option {
	return func(o *Options) { o.stats = s }
}

// wrapStorageErr tags a raw backend error as an errs.StorageError, so
// callers can errors.As for it regardless of which storage.Storage
// implementation produced it.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	return &errs.StorageError{Err: err}
}
