package lmsflow

import (
	"context"
	"fmt"

	"github.com/lmsflow/lmsflow/dispatch"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/payload"
	"github.com/lmsflow/lmsflow/platform"
	"github.com/lmsflow/lmsflow/registry"
	"github.com/lmsflow/lmsflow/store"
)

// wireServices initializes the internal services after options have been applied.
func (f *Forwarder) wireServices() {
	f.registry = registry.NewService(f.store, f.lookups.Capabilities, f.logger)

	f.builder = payload.NewBuilder(f.lookups, f.logger)

	sender := dispatch.NewSender(f.config.ConnectTimeout, f.config.RequestTimeout, f.store, f.logger)
	f.dispatcher = dispatch.NewDispatcher(sender, f.metrics, f.tracer, f.logger)
}

// Registry returns the subscription management service.
func (f *Forwarder) Registry() *registry.Service { return f.registry }

// Store returns the persistence backend.
func (f *Forwarder) Store() store.Store { return f.store }

// Close releases the store.
func (f *Forwarder) Close() error { return f.store.Close() }

// HandleEvent is the observer entry point: the host calls it for every
// platform event it emits. Unrecognized events are ignored.
//
// The critical path:
//  1. Map the platform event name onto the closed event type set.
//  2. Load enabled subscriptions for that type; bail out early when
//     there are none, before any lookup work.
//  3. Check the event subject still qualifies (user exists, not deleted).
//  4. Build the enriched payload.
//  5. Deliver synchronously to every subscription that passes the
//     metadata filter. Delivery failures are logged, never returned.
func (f *Forwarder) HandleEvent(ctx context.Context, ev *platform.Event) error {
	et, ok := eventtype.FromSource(ev.EventName)
	if !ok {
		return nil
	}

	if f.metrics != nil {
		f.metrics.RecordEvent(et.String())
	}

	subs, err := f.store.ListEnabledByType(ctx, et)
	if err != nil {
		return fmt.Errorf("lmsflow: list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	ok, err = f.builder.Qualifies(ctx, et, ev)
	if err != nil {
		return fmt.Errorf("lmsflow: qualify event: %w", err)
	}
	if !ok {
		f.logger.DebugContext(ctx, "event subject no longer valid, skipping",
			"eventtype", et, "objectid", ev.ObjectID, "relateduserid", ev.RelatedUserID)
		return nil
	}

	pl, err := f.builder.Build(ctx, et, ev)
	if err != nil {
		return fmt.Errorf("lmsflow: build payload: %w", err)
	}

	f.dispatcher.Dispatch(ctx, et, ev, pl, subs)
	return nil
}
