package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/internal/entity"
	"github.com/lmsflow/lmsflow/registry"
)

type webhookModel struct {
	grove.BaseModel `grove:"table:lmsflow_webhooks"`

	ID        string    `grove:"id,pk"`
	Name      string    `grove:"name"`
	URL       string    `grove:"url"`
	EventType string    `grove:"eventtype"`
	Metadata  string    `grove:"metadata"` // JSON object
	Secret    string    `grove:"secret"`
	Enabled   bool      `grove:"enabled"`
	CreatedBy int64     `grove:"created_by"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toWebhookModel(sub *registry.Subscription) *webhookModel {
	metadata, _ := json.Marshal(sub.Metadata) //nolint:errcheck // best-effort

	return &webhookModel{
		ID:        sub.ID.String(),
		Name:      sub.Name,
		URL:       sub.URL,
		EventType: sub.EventType.String(),
		Metadata:  string(metadata),
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

	var metadata map[string]string
	if m.Metadata != "" && m.Metadata != "null" {
		_ = json.Unmarshal([]byte(m.Metadata), &metadata) //nolint:errcheck // best-effort
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
		Metadata:  metadata,
		Secret:    m.Secret,
		Enabled:   m.Enabled,
		CreatedBy: m.CreatedBy,
	}, nil
}
