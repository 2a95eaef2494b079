package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("predictor-mcp/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// probe endpoints are never traced
var untracedPaths = map[string]struct{}{
	"/healthz": {},
	"/health":  {},
	"/livez":   {},
	"/readyz":  {},
}

// startSpan opens a child span for handler entry points only. Helpers and
// middleware share the request span, and nothing starts a root span.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !isHandlerSpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(spanAttributes(ctx, attrs)...))
}

func spanAttributes(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		return attrs
	}
	out := make([]attribute.KeyValue, 0, len(attrs)+1)
	out = append(out, attribute.String("request.id", requestID))
	return append(out, attrs...)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}
