package registry

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/internal/entity"
	"github.com/lmsflow/lmsflow/platform"
)

// siteConfigCapability names the host capability gating registry mutations.
const siteConfigCapability = "site:config"

// Service provides capability-checked webhook subscription management.
//
// Every externally reachable operation passes through the capability
// guard before touching the store; the guard is the single place the
// authorization rule lives.
type Service struct {
	store        Store
	capabilities platform.CapabilityChecker
	logger       *slog.Logger
}

// NewService creates a subscription service. The capability checker may
// be nil, in which case all operations are permitted (embedded use where
// the host enforces authorization upstream).
func NewService(store Store, capabilities platform.CapabilityChecker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		capabilities: capabilities,
		logger:       logger,
	}
}

// requireSiteConfig is the authorization guard applied to every
// operation on the registry's external surface.
func (svc *Service) requireSiteConfig(ctx context.Context) error {
	if svc.capabilities == nil {
		return nil
	}
	ok, err := svc.capabilities.HasSiteConfig(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &AuthorizationError{Capability: siteConfigCapability}
	}
	return nil
}

// Create registers a new webhook subscription.
func (svc *Service) Create(ctx context.Context, in Input) (*Subscription, error) {
	if err := svc.requireSiteConfig(ctx); err != nil {
		return nil, err
	}

	et, ok := eventtype.Parse(in.EventType)
	if !ok {
		return nil, &ValidationError{Field: "eventtype", Message: "unknown event type: " + in.EventType}
	}

	if _, err := url.ParseRequestURI(in.URL); err != nil {
		return nil, &ValidationError{Field: "url", Message: "invalid URL"}
	}

	if err := ValidateMetadata(in.Metadata); err != nil {
		return nil, &ValidationError{Field: "meta", Message: err.Error()}
	}

	sub := &Subscription{
		Entity:    entity.New(),
		ID:        id.NewWebhookID(),
		Name:      in.Name,
		URL:       in.URL,
		EventType: et,
		Metadata:  CanonicalizeMetadata(in.Metadata),
		Secret:    in.Secret,
		Enabled:   true,
		CreatedBy: in.CreatedBy,
	}

	if err := svc.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	svc.logger.InfoContext(ctx, "webhook registered",
		"webhook_id", sub.ID,
		"eventtype", sub.EventType,
		"url", sub.URL,
	)

	return sub, nil
}

// Get returns a subscription by ID.
func (svc *Service) Get(ctx context.Context, subID id.ID) (*Subscription, error) {
	if err := svc.requireSiteConfig(ctx); err != nil {
		return nil, err
	}
	return svc.store.GetSubscription(ctx, subID)
}

// List returns all subscriptions, newest first, regardless of enabled state.
func (svc *Service) List(ctx context.Context) ([]*Subscription, error) {
	if err := svc.requireSiteConfig(ctx); err != nil {
		return nil, err
	}
	return svc.store.ListSubscriptions(ctx)
}

// Delete permanently removes a subscription. There are no child records,
// so the delete has no cascading effects.
func (svc *Service) Delete(ctx context.Context, subID id.ID) error {
	if err := svc.requireSiteConfig(ctx); err != nil {
		return err
	}

	if err := svc.store.DeleteSubscription(ctx, subID); err != nil {
		return err
	}

	svc.logger.InfoContext(ctx, "webhook deleted", "webhook_id", subID)
	return nil
}
