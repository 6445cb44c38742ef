package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("bolao-brasileirao/internal/usecase")

// startUsecaseSpan opens a child span only under a recording parent.
// Service methods called outside a traced request (cron, tests) get a
// no-op span instead of orphan roots.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name)
}
