// Package store defines the composite persistence interface for webhook
// subscriptions and re-exports the backend packages that implement it.
package store

import (
	"context"

	"github.com/lmsflow/lmsflow/registry"
)

// Store is the full persistence interface a backend must satisfy.
// Implementations live in the memory, sqlite, postgres and redis
// subpackages.
type Store interface {
	registry.Store

	// Migrate creates or upgrades the backend schema. Backends without a
	// schema (memory, redis) treat this as a no-op.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
