// Package memory provides an in-memory Store implementation for unit testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/registry"
	lmsstore "github.com/lmsflow/lmsflow/store"
)

// compile-time interface check.
var _ lmsstore.Store = (*Store)(nil)

// Store is an in-memory implementation of store.Store for testing.
type Store struct {
	mu sync.RWMutex

	subscriptions map[string]*registry.Subscription // keyed by ID string

	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		subscriptions: make(map[string]*registry.Subscription),
	}
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return lmsflow.ErrStoreClosed
	}
	return nil
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) CreateSubscription(_ context.Context, sub *registry.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lmsflow.ErrStoreClosed
	}

	cp := *sub
	s.subscriptions[sub.ID.String()] = &cp
	return nil
}

func (s *Store) GetSubscription(_ context.Context, subID id.ID) (*registry.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, lmsflow.ErrStoreClosed
	}

	sub, ok := s.subscriptions[subID.String()]
	if !ok {
		return nil, lmsflow.ErrWebhookNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *Store) DeleteSubscription(_ context.Context, subID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return lmsflow.ErrStoreClosed
	}

	if _, ok := s.subscriptions[subID.String()]; !ok {
		return lmsflow.ErrWebhookNotFound
	}
	delete(s.subscriptions, subID.String())
	return nil
}

func (s *Store) ListSubscriptions(_ context.Context) ([]*registry.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, lmsflow.ErrStoreClosed
	}

	result := make([]*registry.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		cp := *sub
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() > result[j].ID.String()
	})
	return result, nil
}

func (s *Store) ListEnabledByType(_ context.Context, et eventtype.Type) ([]*registry.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, lmsflow.ErrStoreClosed
	}

	var result []*registry.Subscription
	for _, sub := range s.subscriptions {
		if sub.Enabled && sub.EventType == et {
			cp := *sub
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) DisableByURL(_ context.Context, url string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, lmsflow.ErrStoreClosed
	}

	var n int64
	now := time.Now().UTC()
	for _, sub := range s.subscriptions {
		if sub.URL == url && sub.Enabled {
			sub.Enabled = false
			sub.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
