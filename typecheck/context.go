package typecheck

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/amp-labs/typecheck/contexts"
)

// contextKey is a custom type for context keys used within this package.
// Using a custom type instead of a plain string prevents collisions with
// context keys from other packages.
type contextKey string

const (
	// bareErrorsKey is the context key for the bare-errors preference.
	// When set to true via WithBareErrors, validation errors are returned
	// as the raw ArgumentError/ReturnError values without the func-name
	// prefix wrapping. Useful on hot paths where the caller attaches its
	// own context, or when matching exact error strings.
	bareErrorsKey contextKey = "bareErrors"

	// tracerKey is the context key for the OpenTelemetry tracer installed
	// via WithTracer.
	tracerKey contextKey = "tracer"
)

// WithBareErrors returns a new context with the bare-errors preference set.
// When true, a mismatch error comes back unwrapped (no "funcname:" prefix),
// so errors.As against *errors.ArgumentError sees it directly. The default
// is false: errors are prefixed with the callable's name.
//
// The flag flows down through context propagation, so it can be set once at
// a boundary and affect every validated call underneath.
func WithBareErrors(ctx context.Context, bare bool) context.Context {
	return contexts.WithValue[contextKey, bool](ctx, bareErrorsKey, bare)
}

// WantBareErrors retrieves the bare-errors preference from the context.
// Returns false if the preference was never set.
func WantBareErrors(ctx context.Context) bool {
	value, found := contexts.GetValue[contextKey, bool](ctx, bareErrorsKey)
	if found {
		return value
	}

	return false
}

// WithTracer installs an OpenTelemetry tracer on the context. When present,
// every Call runs inside a "typecheck.call" span carrying the callable's
// name; without it, calls create no spans at all.
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return contexts.WithValue[contextKey, trace.Tracer](ctx, tracerKey, tracer)
}

// TracerFrom retrieves the tracer installed via WithTracer, if any.
func TracerFrom(ctx context.Context) (trace.Tracer, bool) {
	return contexts.GetValue[contextKey, trace.Tracer](ctx, tracerKey)
}

// noopSpan is a non-recording span handed out when no tracer is installed,
// so call sites never need a nil check.
var noopSpan = trace.SpanFromContext(context.Background()) //nolint:gochecknoglobals

// startCallSpan opens the per-call span when a tracer is installed.
func startCallSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer, ok := TracerFrom(ctx)
	if !ok {
		return ctx, noopSpan
	}

	return tracer.Start(ctx, "typecheck.call",
		trace.WithAttributes(attribute.String("typecheck.func", name)))
}
