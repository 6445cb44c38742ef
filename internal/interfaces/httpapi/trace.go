package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("bolao-brasileirao/interfaces/httpapi")

// startSpan opens a child span under the otelhttp root. Middleware
// helper spans are skipped; only handler-level spans add signal. With
// no recording parent (filtered routes like /api/health) it returns a
// no-op span so internal helpers never create orphan roots.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() || !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return apiTracer.Start(ctx, name)
}
