package lmsflow

import (
	"log/slog"
	"time"

	"github.com/lmsflow/lmsflow/dispatch"
	"github.com/lmsflow/lmsflow/observability"
	"github.com/lmsflow/lmsflow/payload"
	"github.com/lmsflow/lmsflow/platform"
	"github.com/lmsflow/lmsflow/registry"
	"github.com/lmsflow/lmsflow/store"
)

// Forwarder observes platform events and forwards them to registered
// webhooks.
type Forwarder struct {
	config  Config
	store   store.Store
	lookups platform.Lookups
	metrics *observability.Metrics
	tracer  *observability.Tracer
	logger  *slog.Logger

	registry   *registry.Service
	builder    *payload.Builder
	dispatcher *dispatch.Dispatcher
}

// Option configures a Forwarder instance.
type Option func(*Forwarder) error

// New creates a new Forwarder with the given options. A store and the
// host lookups are required.
func New(opts ...Option) (*Forwarder, error) {
	f := &Forwarder{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if f.store == nil {
		return nil, ErrNoStore
	}
	if f.lookups.Users == nil {
		return nil, ErrNoLookups
	}
	f.wireServices()
	return f, nil
}

// WithStore sets the persistence backend for the Forwarder instance.
func WithStore(s store.Store) Option {
	return func(f *Forwarder) error {
		f.store = s
		return nil
	}
}

// WithLookups sets the host lookup bundle the payload builder and the
// admin API read from.
func WithLookups(l platform.Lookups) Option {
	return func(f *Forwarder) error {
		f.lookups = l
		return nil
	}
}

// WithLogger sets the structured logger for the Forwarder instance.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Forwarder) error {
		f.logger = logger
		return nil
	}
}

// WithConnectTimeout overrides the delivery connect timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(f *Forwarder) error {
		f.config.ConnectTimeout = d
		return nil
	}
}

// WithRequestTimeout overrides the per-delivery request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(f *Forwarder) error {
		f.config.RequestTimeout = d
		return nil
	}
}

// WithMetrics enables delivery metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(f *Forwarder) error {
		f.metrics = m
		return nil
	}
}

// WithTracer enables per-delivery tracing spans.
func WithTracer(t *observability.Tracer) Option {
	return func(f *Forwarder) error {
		f.tracer = t
		return nil
	}
}
