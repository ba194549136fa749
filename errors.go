package lmsflow

import "errors"

// Sentinel errors returned by Forwarder operations and store implementations.
var (
	// ErrNoStore is returned when a Forwarder is created without a store.
	ErrNoStore = errors.New("lmsflow: store is required")

	// ErrNoLookups is returned when a Forwarder is created without platform lookups.
	ErrNoLookups = errors.New("lmsflow: platform lookups are required")

	// ErrWebhookNotFound is returned when a webhook subscription cannot be found.
	ErrWebhookNotFound = errors.New("lmsflow: webhook not found")

	// ErrStoreClosed is returned when a store operation is attempted after the store is closed.
	ErrStoreClosed = errors.New("lmsflow: store is closed")

	// ErrMigrationFailed is returned when a database migration fails.
	ErrMigrationFailed = errors.New("lmsflow: migration failed")
)
