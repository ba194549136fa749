package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/internal/entity"
	"github.com/lmsflow/lmsflow/registry"
)

func newSub(t *testing.T, name, url string, et eventtype.Type, createdAt time.Time) *registry.Subscription {
	t.Helper()
	return &registry.Subscription{
		Entity:    entity.Entity{CreatedAt: createdAt, UpdatedAt: createdAt},
		ID:        id.NewWebhookID(),
		Name:      name,
		URL:       url,
		EventType: et,
		Enabled:   true,
	}
}

func TestCreateGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	sub := newSub(t, "grades", "https://example.com/hook", eventtype.UserGraded, time.Now().UTC())
	if err := s.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "grades" || got.EventType != eventtype.UserGraded {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned copy must not leak into the store.
	got.Name = "mutated"
	again, err := s.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Name != "grades" {
		t.Errorf("store leaked mutation: %q", again.Name)
	}

	if err := s.DeleteSubscription(ctx, sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetSubscription(ctx, sub.ID); !errors.Is(err, lmsflow.ErrWebhookNotFound) {
		t.Errorf("expected ErrWebhookNotFound, got %v", err)
	}
	if err := s.DeleteSubscription(ctx, sub.ID); !errors.Is(err, lmsflow.ErrWebhookNotFound) {
		t.Errorf("expected ErrWebhookNotFound on double delete, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now().UTC()
	old := newSub(t, "old", "https://a.example", eventtype.UserCreated, base.Add(-time.Hour))
	mid := newSub(t, "mid", "https://b.example", eventtype.UserCreated, base.Add(-time.Minute))
	recent := newSub(t, "recent", "https://c.example", eventtype.UserCreated, base)
	for _, sub := range []*registry.Subscription{old, recent, mid} {
		if err := s.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	subs, err := s.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3, got %d", len(subs))
	}
	for i, want := range []string{"recent", "mid", "old"} {
		if subs[i].Name != want {
			t.Errorf("subs[%d] = %q, want %q", i, subs[i].Name, want)
		}
	}
}

func TestListEnabledByType(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	match := newSub(t, "match", "https://a.example", eventtype.UserGraded, now)
	other := newSub(t, "other", "https://b.example", eventtype.UserCreated, now)
	disabled := newSub(t, "disabled", "https://c.example", eventtype.UserGraded, now)
	disabled.Enabled = false
	for _, sub := range []*registry.Subscription{match, other, disabled} {
		if err := s.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	subs, err := s.ListEnabledByType(ctx, eventtype.UserGraded)
	if err != nil {
		t.Fatalf("list enabled: %v", err)
	}
	if len(subs) != 1 || subs[0].Name != "match" {
		t.Fatalf("expected only the enabled matching subscription, got %d", len(subs))
	}
}

func TestDisableByURL(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	a := newSub(t, "a", "https://gone.example/hook", eventtype.UserCreated, now)
	b := newSub(t, "b", "https://gone.example/hook", eventtype.UserGraded, now)
	c := newSub(t, "c", "https://alive.example/hook", eventtype.UserCreated, now)
	for _, sub := range []*registry.Subscription{a, b, c} {
		if err := s.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := s.DisableByURL(ctx, "https://gone.example/hook")
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 disabled, got %d", n)
	}

	for _, subID := range []id.ID{a.ID, b.ID} {
		got, err := s.GetSubscription(ctx, subID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Enabled {
			t.Errorf("%s still enabled", got.Name)
		}
	}
	alive, err := s.GetSubscription(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !alive.Enabled {
		t.Error("unrelated URL was disabled")
	}

	// Second pass matches nothing that is still enabled.
	n, err = s.DisableByURL(ctx, "https://gone.example/hook")
	if err != nil {
		t.Fatalf("disable again: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 on repeat, got %d", n)
	}
}

func TestClosedStore(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, lmsflow.ErrStoreClosed) {
		t.Errorf("ping after close: %v", err)
	}
	if _, err := s.ListSubscriptions(ctx); !errors.Is(err, lmsflow.ErrStoreClosed) {
		t.Errorf("list after close: %v", err)
	}
}
