// Package sqlite implements the webhook store on SQLite via Grove ORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/registry"
	lmsstore "github.com/lmsflow/lmsflow/store"
)

// compile-time interface check
var _ lmsstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("lmsflow/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("lmsflow/sqlite: %w: %v", lmsflow.ErrMigrationFailed, err)
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
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("lmsflow/sqlite: create subscription: %w", err)
	}
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, subID id.ID) (*registry.Subscription, error) {
	var m webhookModel
	err := s.sdb.NewSelect(&m).
		Where("id = ?", subID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lmsflow.ErrWebhookNotFound
		}
		return nil, fmt.Errorf("lmsflow/sqlite: get subscription: %w", err)
	}
	return fromWebhookModel(&m)
}

func (s *Store) DeleteSubscription(ctx context.Context, subID id.ID) error {
	res, err := s.sdb.NewDelete((*webhookModel)(nil)).
		Where("id = ?", subID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("lmsflow/sqlite: delete subscription: %w", err)
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
	err := s.sdb.NewSelect(&models).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lmsflow/sqlite: list subscriptions: %w", err)
	}
	return fromWebhookModels(models)
}

func (s *Store) ListEnabledByType(ctx context.Context, et eventtype.Type) ([]*registry.Subscription, error) {
	var models []webhookModel
	err := s.sdb.NewSelect(&models).
		Where("eventtype = ?", et.String()).
		Where("enabled = 1").
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("lmsflow/sqlite: list enabled by type: %w", err)
	}
	return fromWebhookModels(models)
}

func (s *Store) DisableByURL(ctx context.Context, url string) (int64, error) {
	now := time.Now().UTC()
	res, err := s.sdb.NewUpdate((*webhookModel)(nil)).
		Set("enabled = ?", false).
		Set("updated_at = ?", now).
		Where("url = ?", url).
		Where("enabled = 1").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("lmsflow/sqlite: disable by url: %w", err)
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
