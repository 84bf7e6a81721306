package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

// TenantStats aggregates a tenant's dashboard counters.
type TenantStats struct {
	ActiveSessions    int   `json:"activeSessions"`
	TotalSessions     int   `json:"totalSessions"`
	TotalMessages     int64 `json:"totalMessages"`
	ActiveAPIKeys     int   `json:"activeApiKeys"`
	TotalAPIKeys      int   `json:"totalApiKeys"`
	TotalRequests     int64 `json:"totalRequests"`
	ActiveWebhooks    int   `json:"activeWebhooks"`
	TotalWebhooks     int   `json:"totalWebhooks"`
	TotalWebhookCalls int64 `json:"totalWebhookCalls"`
}

type StatsService struct {
	sessions ports.SessionRepository
	keys     ports.APIKeyRepository
	webhooks ports.WebhookRepository
}

func NewStatsService(sessions ports.SessionRepository, keys ports.APIKeyRepository, webhooks ports.WebhookRepository) *StatsService {
	return &StatsService{sessions: sessions, keys: keys, webhooks: webhooks}
}

func (s *StatsService) ForOwner(ctx context.Context, ownerID string) (TenantStats, error) {
	var stats TenantStats

	sessions, err := s.sessions.ListByOwner(ctx, ownerID)
	if err != nil {
		return TenantStats{}, err
	}
	stats.TotalSessions = len(sessions)
	for _, session := range sessions {
		if session.Connected {
			stats.ActiveSessions++
		}
		stats.TotalMessages += session.MessageCount
	}

	keys, err := s.keys.ListByOwner(ctx, ownerID)
	if err != nil {
		return TenantStats{}, err
	}
	stats.TotalAPIKeys = len(keys)
	for _, key := range keys {
		if key.Active {
			stats.ActiveAPIKeys++
		}
		stats.TotalRequests += key.RequestCount
	}

	webhooks, err := s.webhooks.ListByOwner(ctx, ownerID)
	if err != nil {
		return TenantStats{}, err
	}
	stats.TotalWebhooks = len(webhooks)
	for _, w := range webhooks {
		if w.Active {
			stats.ActiveWebhooks++
		}
		stats.TotalWebhookCalls += w.SuccessCount + w.FailureCount
	}

	return stats, nil
}
