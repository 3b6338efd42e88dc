package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartQuerySpan creates a client span for a read query against the given
// table. The search path only ever reads, so there is no insert/update
// variant. Returns the span's context and a function to end it.
//
// Example usage:
//
//	ctx, endSpan := tracing.StartQuerySpan(ctx, "listings")
//	defer func() { endSpan(err) }()
func StartQuerySpan(ctx context.Context, table string) (context.Context, func(error)) {
	tracer := otel.Tracer("bookfair/db")

	spanName := "query"
	if table != "" {
		spanName = spanName + " " + table
	}

	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", "query"),
		),
	)
	if table != "" {
		span.SetAttributes(attribute.String("db.sql.table", table))
	}

	return ctx, endFunc(span)
}

// StartSpan creates a span for an in-process operation such as a ranking
// pipeline run or a school resolution.
func StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, span := otel.Tracer("bookfair").Start(ctx, name)
	return ctx, endFunc(span)
}

// endFunc closes over a span, recording the error (if any) before ending.
func endFunc(span trace.Span) func(error) {
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// SetAttributes sets attributes on the span active in ctx, if any.
func SetAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}
