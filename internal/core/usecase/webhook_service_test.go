package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

func TestWebhookServiceCreateRejectsBadURL(t *testing.T) {
	svc := NewWebhookService(&stubWebhookRepo{}, zap.NewNop())

	_, err := svc.Create(context.Background(), domain.Webhook{
		OwnerID:   "owner-a",
		URL:       "not-a-url",
		EventType: domain.EventAll,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWebhookServicePartialUpdate(t *testing.T) {
	repo := &stubWebhookRepo{registrations: []domain.Webhook{{
		ID:        3,
		OwnerID:   "owner-a",
		URL:       "https://example.com/old",
		EventType: domain.EventMessageReceived,
		Active:    true,
		Secret:    "keep-me",
	}}}
	svc := NewWebhookService(repo, zap.NewNop())

	newURL := "https://example.com/new"
	inactive := false
	updated, err := svc.Update(context.Background(), "owner-a", 3, WebhookUpdate{
		URL:    &newURL,
		Active: &inactive,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.URL != newURL || updated.Active {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Secret != "keep-me" || updated.EventType != domain.EventMessageReceived {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}
}

func TestWebhookServiceUpdateValidatesResult(t *testing.T) {
	repo := &stubWebhookRepo{registrations: []domain.Webhook{{
		ID: 3, OwnerID: "owner-a", URL: "https://example.com/hook",
		EventType: domain.EventAll, Active: true,
	}}}
	svc := NewWebhookService(repo, zap.NewNop())

	bad := domain.EventType("message_sent")
	_, err := svc.Update(context.Background(), "owner-a", 3, WebhookUpdate{EventType: &bad})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWebhookServiceUpdateUnknownID(t *testing.T) {
	svc := NewWebhookService(&stubWebhookRepo{}, zap.NewNop())

	url := "https://example.com/hook"
	_, err := svc.Update(context.Background(), "owner-a", 99, WebhookUpdate{URL: &url})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
