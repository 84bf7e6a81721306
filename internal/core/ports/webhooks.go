package ports

import (
	"context"
	"time"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

type WebhookRepository interface {
	Create(ctx context.Context, w domain.Webhook) (domain.Webhook, error)
	Get(ctx context.Context, ownerID string, id int64) (domain.Webhook, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Webhook, error)
	// FindMatching returns active registrations for ownerID whose event filter
	// equals kind or is "all".
	FindMatching(ctx context.Context, ownerID string, kind domain.EventType) ([]domain.Webhook, error)
	Update(ctx context.Context, w domain.Webhook) (domain.Webhook, error)
	Delete(ctx context.Context, ownerID string, id int64) (bool, error)
	// RecordResult applies the terminal outcome of one notify for one
	// registration: exactly one counter increment plus last_triggered_at.
	RecordResult(ctx context.Context, id int64, success bool, at time.Time) error
}
