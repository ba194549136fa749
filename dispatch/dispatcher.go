package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/trace"

	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/observability"
	"github.com/lmsflow/lmsflow/payload"
	"github.com/lmsflow/lmsflow/platform"
	"github.com/lmsflow/lmsflow/registry"
)

// Dispatcher fans a built payload out to the subscriptions selected for
// an event type. Deliveries run sequentially on the calling goroutine —
// the event fires inline on the host's observer thread — and each one
// is independent: a failure is logged and absorbed, never propagated to
// the event source or to sibling webhooks.
type Dispatcher struct {
	sender  *Sender
	metrics *observability.Metrics
	tracer  *observability.Tracer
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher. Metrics and tracer may be nil.
func NewDispatcher(sender *Sender, metrics *observability.Metrics, tracer *observability.Tracer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		sender:  sender,
		metrics: metrics,
		tracer:  tracer,
		logger:  logger,
	}
}

// Dispatch serializes the payload once and delivers it to every
// subscription that survives the metadata filter. At-most-once,
// best-effort, immediate: no retries, no queueing.
func (d *Dispatcher) Dispatch(ctx context.Context, et eventtype.Type, ev *platform.Event, pl *payload.Payload, subs []*registry.Subscription) {
	body, err := json.Marshal(pl)
	if err != nil {
		d.logger.ErrorContext(ctx, "marshal payload failed", "eventtype", et, "error", err)
		return
	}

	for _, sub := range subs {
		if !MatchesCourse(sub, et, ev) {
			continue
		}
		d.deliver(ctx, sub, body)
	}
}

// deliver sends to one subscription and records the outcome.
func (d *Dispatcher) deliver(ctx context.Context, sub *registry.Subscription, body []byte) {
	var span trace.Span
	if d.tracer != nil {
		ctx, span = d.tracer.StartDeliverySpan(ctx, sub.ID.String(), sub.EventType.String(), sub.URL)
	}

	result := d.sender.Send(ctx, sub, body)

	if span != nil {
		d.tracer.EndDeliverySpan(span, result.StatusCode, result.LatencyMs, result.Error)
	}

	if d.metrics != nil {
		d.metrics.RecordDelivery(deliveryStatus(result), float64(result.LatencyMs)/1000.0)
		if result.StatusCode == http.StatusGone {
			d.metrics.WebhooksDisabled.Inc()
		}
	}

	switch {
	case result.StatusCode == 0:
		d.logger.WarnContext(ctx, "delivery transport failure",
			"webhook_id", sub.ID, "url", sub.URL, "error", result.Error)
	case result.StatusCode >= 200 && result.StatusCode < 300:
		d.logger.DebugContext(ctx, "delivered",
			"webhook_id", sub.ID, "status", result.StatusCode, "latency_ms", result.LatencyMs)
	default:
		d.logger.WarnContext(ctx, "delivery rejected",
			"webhook_id", sub.ID, "status", result.StatusCode, "latency_ms", result.LatencyMs)
	}
}

// MatchesCourse applies the per-subscription courseid metadata filter.
// Only filterable event types consult it; a subscription with no
// courseid key receives every event of its type. Metadata stores
// courseid as a canonical decimal string, so the comparison is plain
// string equality against the formatted event course id.
func MatchesCourse(sub *registry.Subscription, et eventtype.Type, ev *platform.Event) bool {
	if !et.CourseFilterable() {
		return true
	}
	want, ok := sub.Metadata["courseid"]
	if !ok {
		return true
	}
	return want == strconv.FormatInt(ev.CourseID, 10)
}

func deliveryStatus(r Result) string {
	switch {
	case r.StatusCode == 0:
		return "transport_error"
	case r.StatusCode >= 200 && r.StatusCode < 300:
		return "delivered"
	case r.StatusCode == http.StatusGone:
		return "gone"
	default:
		return "rejected"
	}
}
