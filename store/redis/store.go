// Package redis implements the webhook store on Redis via Grove KV.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xraph/grove/kv"
	"github.com/xraph/grove/kv/drivers/redisdriver"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/internal/entity"
	"github.com/lmsflow/lmsflow/registry"
	lmsstore "github.com/lmsflow/lmsflow/store"
)

// compile-time interface check
var _ lmsstore.Store = (*Store)(nil)

// Store implements store.Store using Redis via Grove KV.
type Store struct {
	kv  *kv.Store
	rdb goredis.UniversalClient
}

// New creates a new Redis store backed by Grove KV.
func New(store *kv.Store) *Store {
	return &Store{
		kv:  store,
		rdb: redisdriver.UnwrapClient(store),
	}
}

// Migrate is a no-op for Redis (no schema migrations needed).
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close closes the KV store.
func (s *Store) Close() error {
	return s.kv.Close()
}

// webhookModel is the JSON representation stored in Redis.
type webhookModel struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	EventType string            `json:"eventtype"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Secret    string            `json:"secret,omitempty"`
	Enabled   bool              `json:"enabled"`
	CreatedBy int64             `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toWebhookModel(sub *registry.Subscription) *webhookModel {
	return &webhookModel{
		ID:        sub.ID.String(),
		Name:      sub.Name,
		URL:       sub.URL,
		EventType: sub.EventType.String(),
		Metadata:  sub.Metadata,
		Secret:    sub.Secret,
		Enabled:   sub.Enabled,
		CreatedBy: sub.CreatedBy,
		CreatedAt: sub.CreatedAt,
		UpdatedAt: sub.UpdatedAt,
	}
}

func fromWebhookModel(m *webhookModel) (*registry.Subscription, error) {
	subID, err := id.ParseWebhookID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse webhook ID %q: %w", m.ID, err)
	}
	et, ok := eventtype.Parse(m.EventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type %q for webhook %s", m.EventType, m.ID)
	}
	return &registry.Subscription{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        subID,
		Name:      m.Name,
		URL:       m.URL,
		EventType: et,
		Metadata:  m.Metadata,
		Secret:    m.Secret,
		Enabled:   m.Enabled,
		CreatedBy: m.CreatedBy,
	}, nil
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// scoreFromTime converts a time.Time to a sorted set score (unix seconds as float64).
func scoreFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// isNotFound checks if an error is a KV not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, kv.ErrNotFound)
}

// getEntity retrieves and decodes a JSON entity from a KV key.
func (s *Store) getEntity(ctx context.Context, key string, dest any) error {
	raw, err := s.kv.GetRaw(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// setEntity encodes and stores a JSON entity under a KV key.
func (s *Store) setEntity(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("lmsflow/redis: marshal entity: %w", err)
	}
	return s.kv.SetRaw(ctx, key, raw)
}

func (s *Store) CreateSubscription(ctx context.Context, sub *registry.Subscription) error {
	m := toWebhookModel(sub)

	if err := s.setEntity(ctx, entityKey(m.ID), m); err != nil {
		return fmt.Errorf("lmsflow/redis: create subscription: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.ZAdd(ctx, zWebhookAll, goredis.Z{Score: scoreFromTime(m.CreatedAt), Member: m.ID})
	pipe.SAdd(ctx, urlKey(m.URL), m.ID)
	if m.Enabled {
		pipe.SAdd(ctx, enabledTypeKey(m.EventType), m.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lmsflow/redis: create subscription indexes: %w", err)
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, subID id.ID) (*registry.Subscription, error) {
	var m webhookModel
	if err := s.getEntity(ctx, entityKey(subID.String()), &m); err != nil {
		if isNotFound(err) {
			return nil, lmsflow.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("lmsflow/redis: get subscription: %w", err)
	}
	return fromWebhookModel(&m)
}

func (s *Store) DeleteSubscription(ctx context.Context, subID id.ID) error {
	key := entityKey(subID.String())

	var m webhookModel
	if err := s.getEntity(ctx, key, &m); err != nil {
		if isNotFound(err) {
			return lmsflow.ErrWebhookNotFound
		}
		return fmt.Errorf("lmsflow/redis: delete subscription get: %w", err)
	}

	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("lmsflow/redis: delete subscription: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.ZRem(ctx, zWebhookAll, m.ID)
	pipe.SRem(ctx, urlKey(m.URL), m.ID)
	pipe.SRem(ctx, enabledTypeKey(m.EventType), m.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lmsflow/redis: delete subscription indexes: %w", err)
	}
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]*registry.Subscription, error) {
	// Reverse range gives newest first.
	ids, err := s.rdb.ZRevRange(ctx, zWebhookAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lmsflow/redis: list subscriptions: %w", err)
	}

	result := make([]*registry.Subscription, 0, len(ids))
	for _, entryID := range ids {
		var m webhookModel
		if err := s.getEntity(ctx, entityKey(entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		sub, err := fromWebhookModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, nil
}

func (s *Store) ListEnabledByType(ctx context.Context, et eventtype.Type) ([]*registry.Subscription, error) {
	ids, err := s.rdb.SMembers(ctx, enabledTypeKey(et.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("lmsflow/redis: list enabled by type: %w", err)
	}

	result := make([]*registry.Subscription, 0, len(ids))
	for _, entryID := range ids {
		var m webhookModel
		if err := s.getEntity(ctx, entityKey(entryID), &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		if !m.Enabled {
			// Stale index entry; drop it.
			s.rdb.SRem(ctx, enabledTypeKey(et.String()), entryID)
			continue
		}
		sub, err := fromWebhookModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *Store) DisableByURL(ctx context.Context, url string) (int64, error) {
	ids, err := s.rdb.SMembers(ctx, urlKey(url)).Result()
	if err != nil {
		return 0, fmt.Errorf("lmsflow/redis: disable by url: %w", err)
	}

	var n int64
	for _, entryID := range ids {
		key := entityKey(entryID)
		var m webhookModel
		if err := s.getEntity(ctx, key, &m); err != nil {
			if isNotFound(err) {
				continue
			}
			return n, err
		}
		if !m.Enabled {
			continue
		}

		m.Enabled = false
		m.UpdatedAt = now()
		if err := s.setEntity(ctx, key, &m); err != nil {
			return n, fmt.Errorf("lmsflow/redis: disable by url set: %w", err)
		}
		s.rdb.SRem(ctx, enabledTypeKey(m.EventType), m.ID)
		n++
	}
	return n, nil
}
