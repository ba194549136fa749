// Package postgres implements the webhook store on PostgreSQL via Grove ORM.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/registry"
	lmsstore "github.com/lmsflow/lmsflow/store"
)

// compile-time interface check
var _ lmsstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("lmsflow/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("lmsflow/postgres: %w: %v", lmsflow.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSubscription(ctx context.Context, sub *registry.Subscription) error {
	m := toWebhookModel(sub)
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("lmsflow/postgres: create subscription: %w", err)
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, subID id.ID) (*registry.Subscription, error) {
	var m webhookModel
	err := s.pg.NewSelect(&m).
		Where("id = $1", subID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lmsflow.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("lmsflow/postgres: get subscription: %w", err)
	}
	return fromWebhookModel(&m)
}

func (s *Store) DeleteSubscription(ctx context.Context, subID id.ID) error {
	res, err := s.pg.NewDelete((*webhookModel)(nil)).
		Where("id = $1", subID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lmsflow/postgres: delete subscription: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return lmsflow.ErrWebhookNotFound
	}
	return nil
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]*registry.Subscription, error) {
	var models []webhookModel
	err := s.pg.NewSelect(&models).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lmsflow/postgres: list subscriptions: %w", err)
	}
	return fromWebhookModels(models)
}

func (s *Store) ListEnabledByType(ctx context.Context, et eventtype.Type) ([]*registry.Subscription, error) {
	var models []webhookModel
	err := s.pg.NewSelect(&models).
		Where("eventtype = $1", et.String()).
		Where("enabled = true").
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lmsflow/postgres: list enabled by type: %w", err)
	}
	return fromWebhookModels(models)
}

func (s *Store) DisableByURL(ctx context.Context, url string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.pg.NewUpdate((*webhookModel)(nil)).
		Set("enabled = $1", false).
		Set("updated_at = $2", now).
		Where("url = $3", url).
		Where("enabled = true").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("lmsflow/postgres: disable by url: %w", err)
	}
	return res.RowsAffected()
}

func fromWebhookModels(models []webhookModel) ([]*registry.Subscription, error) {
	result := make([]*registry.Subscription, len(models))
	for i := range models {
		sub, err := fromWebhookModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = sub
	}
	return result, nil
}
