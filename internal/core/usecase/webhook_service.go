package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

// WebhookService owns registration lifecycle. Delivery stats are written by
// the notifier only; this service never touches the counters.
type WebhookService struct {
	repo   ports.WebhookRepository
	logger *zap.Logger
}

func NewWebhookService(repo ports.WebhookRepository, logger *zap.Logger) *WebhookService {
	return &WebhookService{repo: repo, logger: logger}
}

func (s *WebhookService) Create(ctx context.Context, w domain.Webhook) (domain.Webhook, error) {
	if err := w.Validate(); err != nil {
		return domain.Webhook{}, err
	}
	w.CreatedAt = time.Now().UTC()
	created, err := s.repo.Create(ctx, w)
	if err != nil {
		return domain.Webhook{}, err
	}
	s.logger.Info("webhook registered",
		zap.String("owner_id", w.OwnerID),
		zap.String("url", w.URL),
		zap.String("event_type", string(w.EventType)))
	return created, nil
}

func (s *WebhookService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Webhook, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// WebhookUpdate carries a partial update; nil fields are left unchanged.
type WebhookUpdate struct {
	URL           *string
	EventType     *domain.EventType
	Active        *bool
	Secret        *string
	CustomHeaders map[string]string
}

func (s *WebhookService) Update(ctx context.Context, ownerID string, id int64, update WebhookUpdate) (domain.Webhook, error) {
	w, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return domain.Webhook{}, err
	}

	if update.URL != nil {
		w.URL = *update.URL
	}
	if update.EventType != nil {
		w.EventType = *update.EventType
	}
	if update.Active != nil {
		w.Active = *update.Active
	}
	if update.Secret != nil {
		w.Secret = *update.Secret
	}
	if update.CustomHeaders != nil {
		w.CustomHeaders = update.CustomHeaders
	}
	if err := w.Validate(); err != nil {
		return domain.Webhook{}, err
	}

	updated, err := s.repo.Update(ctx, w)
	if err != nil {
		return domain.Webhook{}, err
	}
	s.logger.Info("webhook updated", zap.String("owner_id", ownerID), zap.Int64("webhook_id", id))
	return updated, nil
}

func (s *WebhookService) Delete(ctx context.Context, ownerID string, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("webhook deleted", zap.String("owner_id", ownerID), zap.Int64("webhook_id", id))
	}
	return deleted, nil
}
