package usecase

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 10 * time.Second
	defaultBackoffUnit    = time.Second
)

// NotifierConfig tunes delivery behavior. Zero values fall back to the
// reference defaults (3 attempts, 10s per attempt, 2s/4s/... backoff).
type NotifierConfig struct {
	MaxAttempts    int
	AttemptTimeout time.Duration
	// BackoffUnit scales the 2^n delay between attempts; tests shrink it.
	BackoffUnit time.Duration
}

// Notifier fans one messaging event out to every matching active webhook
// registration. Deliveries to distinct registrations run concurrently and
// independently; attempts for a single registration are strictly sequential.
// Delivery failures never propagate to the code that triggered the event.
type Notifier struct {
	webhooks ports.WebhookRepository
	audit    ports.DeliveryLogRepository
	client   *http.Client
	logger   *zap.Logger
	cfg      NotifierConfig

	wg sync.WaitGroup
}

func NewNotifier(webhooks ports.WebhookRepository, audit ports.DeliveryLogRepository, cfg NotifierConfig, logger *zap.Logger) *Notifier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = defaultBackoffUnit
	}
	return &Notifier{
		webhooks: webhooks,
		audit:    audit,
		client:   &http.Client{Timeout: cfg.AttemptTimeout},
		logger:   logger,
		cfg:      cfg,
	}
}

// Notify resolves after every matching registration's attempt sequence has
// terminated. It only returns an error when the fan-out could not start at
// all (registration lookup or payload marshalling failed).
func (n *Notifier) Notify(ctx context.Context, event domain.OutboundEvent) error {
	registrations, err := n.webhooks.FindMatching(ctx, event.OwnerID, event.EventType)
	if err != nil {
		return fmt.Errorf("find matching webhooks: %w", err)
	}
	if len(registrations) == 0 {
		return nil
	}

	body, err := json.Marshal(wirePayload(event))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var wg sync.WaitGroup
	for _, reg := range registrations {
		wg.Add(1)
		go func(reg domain.Webhook) {
			defer wg.Done()
			n.deliver(ctx, reg, event, body, n.cfg.MaxAttempts)
		}(reg)
	}
	wg.Wait()
	return nil
}

// Dispatch runs Notify in the background on a detached context so HTTP
// responses never wait on webhook delivery. Completion is observable through
// Wait.
func (n *Notifier) Dispatch(event domain.OutboundEvent) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.Notify(context.Background(), event); err != nil {
			n.logger.Error("webhook fan-out failed",
				zap.String("owner_id", event.OwnerID),
				zap.String("event_type", string(event.EventType)),
				zap.Error(err))
		}
	}()
}

// Wait blocks until all background dispatches have completed.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Close waits for in-flight background deliveries during shutdown.
func (n *Notifier) Close() error {
	n.wg.Wait()
	return nil
}

// Test sends a single-attempt synthetic event to one registration so a tenant
// can validate their endpoint. Counters and the audit trail update as usual.
func (n *Notifier) Test(ctx context.Context, ownerID string, webhookID int64) (bool, error) {
	reg, err := n.webhooks.Get(ctx, ownerID, webhookID)
	if err != nil {
		return false, err
	}

	event := domain.OutboundEvent{
		OwnerID:   ownerID,
		SessionID: "test_session",
		EventType: reg.EventType,
		Payload: map[string]any{
			"test": true,
			"message": map[string]any{
				"id":   "test_message_id",
				"body": "This is a test webhook message",
				"from": "+1234567890",
				"to":   "+0987654321",
			},
		},
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(wirePayload(event))
	if err != nil {
		return false, fmt.Errorf("marshal test payload: %w", err)
	}

	return n.deliver(ctx, reg, event, body, 1), nil
}

// deliver runs the attempt sequence for one registration: up to maxAttempts
// POSTs with 2^n backoff between failures, one audit row per attempt, and
// exactly one terminal stats update.
func (n *Notifier) deliver(ctx context.Context, reg domain.Webhook, event domain.OutboundEvent, body []byte, maxAttempts int) bool {
	deliveryID := uuid.NewString()
	success := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := n.post(ctx, reg, body, deliveryID)
		success = err == nil && status >= 200 && status < 300

		entry := domain.DeliveryLog{
			DeliveryID: deliveryID,
			WebhookID:  reg.ID,
			OwnerID:    event.OwnerID,
			SessionID:  event.SessionID,
			URL:        reg.URL,
			EventType:  event.EventType,
			Attempt:    attempt,
			StatusCode: status,
			Success:    success,
			CreatedAt:  time.Now().UTC(),
		}
		if err != nil {
			entry.Error = err.Error()
		} else if !success {
			entry.Error = fmt.Sprintf("endpoint returned status %d", status)
		}
		if auditErr := n.audit.Log(ctx, entry); auditErr != nil {
			n.logger.Error("record delivery attempt", zap.Int64("webhook_id", reg.ID), zap.Error(auditErr))
		}

		if success || attempt == maxAttempts {
			break
		}

		// Backoff of 2^attempt units before the next try: 2s, 4s, 8s, ...
		delay := time.Duration(1<<uint(attempt)) * n.cfg.BackoffUnit
		select {
		case <-ctx.Done():
			attempt = maxAttempts
		case <-time.After(delay):
		}
	}

	now := time.Now().UTC()
	if err := n.webhooks.RecordResult(ctx, reg.ID, success, now); err != nil {
		n.logger.Error("record webhook result", zap.Int64("webhook_id", reg.ID), zap.Error(err))
	}

	if success {
		n.logger.Info("webhook delivered",
			zap.Int64("webhook_id", reg.ID),
			zap.String("delivery_id", deliveryID),
			zap.String("event_type", string(event.EventType)))
	} else {
		n.logger.Warn("webhook delivery failed",
			zap.Int64("webhook_id", reg.ID),
			zap.String("delivery_id", deliveryID),
			zap.String("url", reg.URL))
	}

	return success
}

// post performs one delivery attempt and returns the HTTP status, or 0 with
// an error when the request never produced a response.
func (n *Notifier) post(ctx context.Context, reg domain.Webhook, body []byte, deliveryID string) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, n.cfg.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, reg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	// Custom headers first; the fixed headers below always win.
	for k, v := range reg.CustomHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", deliveryID)
	if reg.Secret != "" {
		req.Header.Set("X-Signature", Sign(body, reg.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	return resp.StatusCode, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of body keyed with secret,
// matching the X-Signature header receivers verify against.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// wirePayload shallow-merges the event identity fields over the payload.
// Identity fields win on collision so receivers can trust them.
func wirePayload(event domain.OutboundEvent) map[string]any {
	merged := make(map[string]any, len(event.Payload)+4)
	for k, v := range event.Payload {
		merged[k] = v
	}
	merged["ownerId"] = event.OwnerID
	merged["sessionId"] = event.SessionID
	merged["eventType"] = string(event.EventType)
	merged["timestamp"] = event.OccurredAt.UTC().Format(time.RFC3339Nano)
	return merged
}
