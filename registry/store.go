package registry

import (
	"context"

	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
)

// Store defines the persistence contract for webhook subscriptions.
type Store interface {
	// CreateSubscription persists a new subscription.
	CreateSubscription(ctx context.Context, sub *Subscription) error

	// GetSubscription returns a subscription by ID.
	GetSubscription(ctx context.Context, subID id.ID) (*Subscription, error)

	// DeleteSubscription permanently removes a subscription.
	DeleteSubscription(ctx context.Context, subID id.ID) error

	// ListSubscriptions returns all subscriptions regardless of enabled
	// state, most recently created first.
	ListSubscriptions(ctx context.Context) ([]*Subscription, error)

	// ListEnabledByType returns enabled subscriptions whose event type
	// matches exactly. This is the hot path — called on every observed
	// platform event.
	ListEnabledByType(ctx context.Context, et eventtype.Type) ([]*Subscription, error)

	// DisableByURL sets enabled=false on every subscription whose URL
	// matches exactly, refreshing updated_at. Returns the number of
	// rows affected; zero matches is not an error (idempotent).
	DisableByURL(ctx context.Context, url string) (int64, error)
}
