package registry

import (
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/internal/entity"
)

// Subscription is a registered webhook: a destination URL bound to one
// event type, optionally narrowed by metadata.
type Subscription struct {
	entity.Entity

	// ID is the unique TypeID for this subscription. Assigned at
	// creation, immutable.
	ID id.ID `json:"id"`

	// Name is the operator-facing display label.
	Name string `json:"name"`

	// URL is the destination HTTP(S) endpoint. URLs are not unique:
	// the same endpoint may be registered under several event types,
	// and a 410 from it disables all of them at once.
	URL string `json:"url"`

	// EventType is the subscribed event type.
	EventType eventtype.Type `json:"eventtype"`

	// Metadata narrows which events of the subscribed type trigger
	// delivery. Only the "courseid" key is interpreted, stored as a
	// decimal string.
	Metadata map[string]string `json:"meta,omitempty"`

	// Secret, when set, enables HMAC signing of deliveries. Never serialized.
	Secret string `json:"-"`

	// Enabled is true on creation and flips to false when the endpoint
	// reports itself gone (HTTP 410).
	Enabled bool `json:"enabled"`

	// CreatedBy records the acting user id at creation time.
	CreatedBy int64 `json:"created_by,omitempty"`
}

// Input is the creation payload for subscriptions.
type Input struct {
	// Name is the display label.
	Name string `json:"name"`

	// URL is the destination endpoint.
	URL string `json:"url"`

	// EventType is the raw event type string; validated against the
	// closed set on create.
	EventType string `json:"eventtype"`

	// Metadata is the optional filter map. Values may arrive as JSON
	// strings or numbers; the "courseid" key is canonicalized to a
	// decimal string before storage.
	Metadata map[string]any `json:"meta,omitempty"`

	// Secret optionally enables HMAC signing for this subscription.
	Secret string `json:"secret,omitempty"`

	// CreatedBy is the acting user id.
	CreatedBy int64 `json:"created_by,omitempty"`
}
