package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/lmsflow/lmsflow"

// Tracer provides OpenTelemetry tracing for webhook deliveries.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new delivery tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(tracerName),
	}
}

// StartDeliverySpan starts a new span for a delivery attempt.
func (t *Tracer) StartDeliverySpan(ctx context.Context, webhookID, eventType, url string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "lmsflow.delivery",
		trace.WithAttributes(
			attribute.String("lmsflow.webhook_id", webhookID),
			attribute.String("lmsflow.eventtype", eventType),
			attribute.String("http.url", url),
		),
	)
}

// EndDeliverySpan ends a delivery span with result attributes.
func (t *Tracer) EndDeliverySpan(span trace.Span, statusCode, latencyMs int, err string) {
	span.SetAttributes(
		attribute.Int("http.status_code", statusCode),
		attribute.Int("lmsflow.latency_ms", latencyMs),
	)
	if err != "" {
		span.SetAttributes(attribute.String("lmsflow.error", err))
	}
	span.End()
}
