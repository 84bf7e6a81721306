package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
	"github.com/atvirokodosprendimai/wahub/internal/core/usecase"
)

type ctxKey string

const (
	timeFormat             = "2006-01-02T15:04:05.999999999Z07:00"
	ownerIDCtxKey   ctxKey = "owner_id"
	maxJSONBodySize        = 1 << 20
)

// Deps wires the handler to the core services.
type Deps struct {
	Admission  *usecase.AdmissionService
	Dispatcher *usecase.Dispatcher
	Notifier   *usecase.Notifier
	Sessions   *usecase.SessionService
	Keys       *usecase.APIKeyService
	Webhooks   *usecase.WebhookService
	Stats      *usecase.StatsService
	Audit      ports.DeliveryLogRepository
	UI         ports.UINotifier
	Logger     *zap.Logger
}

type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.healthz)

	r.Group(func(pr chi.Router) {
		pr.Use(h.requireAPIKey)

		pr.Post("/api/send", h.sendText)
		pr.Post("/api/send-media", h.sendMedia)
		pr.Post("/api/reply", h.reply)
		pr.Post("/api/send-group", h.sendGroup)
		pr.Get("/api/groups/{groupID}/members", h.groupMembers)

		pr.Get("/api/sessions", h.listSessions)
		pr.Post("/api/sessions", h.createSession)
		pr.Get("/api/sessions/{sessionID}", h.getSession)
		pr.Post("/api/sessions/{sessionID}/connect", h.connectSession)
		pr.Post("/api/sessions/{sessionID}/disconnect", h.disconnectSession)
		pr.Delete("/api/sessions/{sessionID}", h.deleteSession)

		pr.Get("/api/keys", h.listKeys)
		pr.Post("/api/keys", h.createKey)
		pr.Delete("/api/keys/{keyID}", h.revokeKey)

		pr.Get("/api/webhooks", h.listWebhooks)
		pr.Post("/api/webhooks", h.createWebhook)
		pr.Patch("/api/webhooks/{webhookID}", h.updateWebhook)
		pr.Delete("/api/webhooks/{webhookID}", h.deleteWebhook)
		pr.Post("/api/webhooks/{webhookID}/test", h.testWebhook)

		pr.Get("/api/logs", h.listLogs)
		pr.Get("/api/stats", h.tenantStats)
	})

	return r
}

// --- auth ---

func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("X-API-Key"))
		if token == "" {
			auth := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				token = strings.TrimSpace(auth[7:])
			}
		}

		key, err := h.deps.Admission.Admit(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrUnauthorized):
				h.writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing api key")
			case errors.Is(err, domain.ErrKeyInactive):
				h.writeError(w, http.StatusUnauthorized, "key_inactive", "api key has been revoked")
			case errors.Is(err, domain.ErrKeyExpired):
				h.writeError(w, http.StatusUnauthorized, "key_expired", "api key has expired")
			case errors.Is(err, domain.ErrRateLimited):
				h.writeError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded for this api key")
			default:
				h.deps.Logger.Error("admit api key", zap.Error(err))
				h.writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDCtxKey, key.OwnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerIDFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerIDCtxKey).(string)
	return owner
}

// --- send endpoints ---

type sendTextRequest struct {
	SessionID string `json:"sessionId"`
	To        string `json:"to"`
	Text      string `json:"text"`
}

type sendMediaRequest struct {
	SessionID string `json:"sessionId"`
	To        string `json:"to"`
	MediaURL  string `json:"mediaUrl"`
	Caption   string `json:"caption"`
}

type replyRequest struct {
	SessionID string `json:"sessionId"`
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
}

type sendGroupRequest struct {
	SessionID string `json:"sessionId"`
	GroupID   string `json:"groupId"`
	Text      string `json:"text"`
}

func (h *Handler) sendText(w http.ResponseWriter, r *http.Request) {
	var req sendTextRequest
	if !h.decodeValidated(w, r, compiledSendText, &req) {
		return
	}
	h.doSend(w, r, domain.SendRequest{
		SessionID: req.SessionID,
		Kind:      domain.SendText,
		To:        req.To,
		Text:      req.Text,
	})
}

func (h *Handler) sendMedia(w http.ResponseWriter, r *http.Request) {
	var req sendMediaRequest
	if !h.decodeValidated(w, r, compiledSendMedia, &req) {
		return
	}
	h.doSend(w, r, domain.SendRequest{
		SessionID: req.SessionID,
		Kind:      domain.SendMedia,
		To:        req.To,
		MediaURL:  req.MediaURL,
		Caption:   req.Caption,
	})
}

func (h *Handler) reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !h.decodeValidated(w, r, compiledReply, &req) {
		return
	}
	h.doSend(w, r, domain.SendRequest{
		SessionID: req.SessionID,
		Kind:      domain.SendReply,
		QuotedID:  req.MessageID,
		Text:      req.Text,
	})
}

func (h *Handler) sendGroup(w http.ResponseWriter, r *http.Request) {
	var req sendGroupRequest
	if !h.decodeValidated(w, r, compiledSendGroup, &req) {
		return
	}
	h.doSend(w, r, domain.SendRequest{
		SessionID: req.SessionID,
		Kind:      domain.SendGroup,
		GroupID:   req.GroupID,
		Text:      req.Text,
	})
}

// doSend dispatches the message, then fans the resulting event out to
// webhooks and the dashboard without delaying the response.
func (h *Handler) doSend(w http.ResponseWriter, r *http.Request, req domain.SendRequest) {
	ownerID := ownerIDFromContext(r.Context())

	messageID, err := h.deps.Dispatcher.Send(r.Context(), ownerID, req)
	if err != nil {
		h.domainError(w, err)
		return
	}

	now := time.Now().UTC()
	payload := req.WebhookPayload(messageID)
	h.deps.Notifier.Dispatch(domain.OutboundEvent{
		OwnerID:    ownerID,
		SessionID:  req.SessionID,
		EventType:  domain.EventMessageSent,
		Payload:    payload,
		OccurredAt: now,
	})
	h.deps.UI.NotifyUser(ownerID, string(domain.EventMessageSent), payload)

	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"messageId": messageID,
		"timestamp": now.Format(timeFormat),
	})
}

func (h *Handler) groupMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_input", "sessionId query parameter is required")
		return
	}

	members, err := h.deps.Dispatcher.GroupMembers(r.Context(), ownerIDFromContext(r.Context()), sessionID, groupID)
	if err != nil {
		h.domainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"groupId": groupID, "members": members})
}

// --- sessions ---

type createSessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Connected       bool   `json:"connected"`
	LastConnectedAt string `json:"lastConnectedAt,omitempty"`
	CreatedAt       string `json:"createdAt"`
	MessageCount    int64  `json:"messageCount"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	session, err := h.deps.Sessions.Create(r.Context(), ownerIDFromContext(r.Context()), req.Name)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.deps.Sessions.ListByOwner(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		h.domainError(w, err)
		return
	}

	result := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"sessions": result})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.deps.Sessions.Get(r.Context(), ownerIDFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) connectSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.deps.Sessions.Connect(r.Context(), ownerIDFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) disconnectSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.deps.Sessions.Disconnect(r.Context(), ownerIDFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.deps.Sessions.Delete(r.Context(), ownerIDFromContext(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// --- api keys ---

type createKeyRequest struct {
	Name      string `json:"name"`
	RateLimit int    `json:"rateLimit"`
	ExpiresAt string `json:"expiresAt"`
}

type keyResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Key          string `json:"key,omitempty"`
	KeyHint      string `json:"keyHint"`
	Active       bool   `json:"active"`
	RateLimit    int    `json:"rateLimit"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
	CreatedAt    string `json:"createdAt"`
	RequestCount int64  `json:"requestCount"`
}

func (h *Handler) createKey(w http.ResponseWriter, r *http.Request) {
	var req createKeyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_input", "expiresAt must be RFC 3339")
			return
		}
		expiresAt = &parsed
	}

	key, token, err := h.deps.Keys.Issue(r.Context(), ownerIDFromContext(r.Context()), req.Name, req.RateLimit, expiresAt)
	if err != nil {
		h.domainError(w, err)
		return
	}

	// The plaintext token appears in this response only.
	resp := toKeyResponse(key)
	resp.Key = token
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.deps.Keys.ListByOwner(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		h.domainError(w, err)
		return
	}

	result := make([]keyResponse, 0, len(keys))
	for _, key := range keys {
		result = append(result, toKeyResponse(key))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"keys": result})
}

func (h *Handler) revokeKey(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "keyID"))
	if !ok {
		return
	}

	revoked, err := h.deps.Keys.Revoke(r.Context(), ownerIDFromContext(r.Context()), id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	if !revoked {
		h.writeError(w, http.StatusNotFound, "not_found", "api key not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

// --- webhooks ---

type createWebhookRequest struct {
	URL           string            `json:"url"`
	EventType     string            `json:"eventType"`
	Secret        string            `json:"secret"`
	CustomHeaders map[string]string `json:"customHeaders"`
	Active        *bool             `json:"active"`
}

type updateWebhookRequest struct {
	URL           *string           `json:"url"`
	EventType     *string           `json:"eventType"`
	Secret        *string           `json:"secret"`
	CustomHeaders map[string]string `json:"customHeaders"`
	Active        *bool             `json:"active"`
}

type webhookResponse struct {
	ID              int64             `json:"id"`
	URL             string            `json:"url"`
	EventType       string            `json:"eventType"`
	Active          bool              `json:"active"`
	CustomHeaders   map[string]string `json:"customHeaders,omitempty"`
	CreatedAt       string            `json:"createdAt"`
	LastTriggeredAt string            `json:"lastTriggeredAt,omitempty"`
	SuccessCount    int64             `json:"successCount"`
	FailureCount    int64             `json:"failureCount"`
}

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	var req createWebhookRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	webhook, err := h.deps.Webhooks.Create(r.Context(), domain.Webhook{
		OwnerID:       ownerIDFromContext(r.Context()),
		URL:           req.URL,
		EventType:     domain.EventType(req.EventType),
		Active:        active,
		Secret:        req.Secret,
		CustomHeaders: req.CustomHeaders,
	})
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toWebhookResponse(webhook))
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.deps.Webhooks.ListByOwner(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		h.domainError(w, err)
		return
	}

	result := make([]webhookResponse, 0, len(webhooks))
	for _, webhook := range webhooks {
		result = append(result, toWebhookResponse(webhook))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"webhooks": result})
}

func (h *Handler) updateWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "webhookID"))
	if !ok {
		return
	}

	var req updateWebhookRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	update := usecase.WebhookUpdate{
		URL:           req.URL,
		Active:        req.Active,
		Secret:        req.Secret,
		CustomHeaders: req.CustomHeaders,
	}
	if req.EventType != nil {
		eventType := domain.EventType(*req.EventType)
		update.EventType = &eventType
	}

	webhook, err := h.deps.Webhooks.Update(r.Context(), ownerIDFromContext(r.Context()), id, update)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toWebhookResponse(webhook))
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "webhookID"))
	if !ok {
		return
	}

	deleted, err := h.deps.Webhooks.Delete(r.Context(), ownerIDFromContext(r.Context()), id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (h *Handler) testWebhook(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, chi.URLParam(r, "webhookID"))
	if !ok {
		return
	}

	delivered, err := h.deps.Notifier.Test(r.Context(), ownerIDFromContext(r.Context()), id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"success": delivered})
}

// --- audit and stats ---

type deliveryLogResponse struct {
	ID         int64  `json:"id"`
	DeliveryID string `json:"deliveryId"`
	WebhookID  int64  `json:"webhookId"`
	SessionID  string `json:"sessionId"`
	URL        string `json:"url"`
	EventType  string `json:"eventType"`
	Attempt    int    `json:"attempt"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	var filter domain.DeliveryLogFilter
	query := r.URL.Query()
	for name, target := range map[string]*int64{"webhookId": &filter.WebhookID, "after": &filter.AfterID} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_input", name+" must be integer")
			return
		}
		*target = parsed
	}
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_input", "limit must be integer")
			return
		}
		filter.Limit = parsed
	}

	logs, err := h.deps.Audit.ListByOwner(r.Context(), ownerIDFromContext(r.Context()), filter)
	if err != nil {
		h.domainError(w, err)
		return
	}

	result := make([]deliveryLogResponse, 0, len(logs))
	for _, entry := range logs {
		result = append(result, deliveryLogResponse{
			ID:         entry.ID,
			DeliveryID: entry.DeliveryID,
			WebhookID:  entry.WebhookID,
			SessionID:  entry.SessionID,
			URL:        entry.URL,
			EventType:  string(entry.EventType),
			Attempt:    entry.Attempt,
			StatusCode: entry.StatusCode,
			Success:    entry.Success,
			Error:      entry.Error,
			CreatedAt:  entry.CreatedAt.UTC().Format(timeFormat),
		})
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"logs": result})
}

func (h *Handler) tenantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.deps.Stats.ForOwner(r.Context(), ownerIDFromContext(r.Context()))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- helpers ---

func toSessionResponse(session domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:           session.SessionID,
		Name:         session.Name,
		PhoneNumber:  session.PhoneNumber,
		Connected:    session.Connected,
		CreatedAt:    session.CreatedAt.UTC().Format(timeFormat),
		MessageCount: session.MessageCount,
	}
	if session.LastConnectedAt != nil {
		resp.LastConnectedAt = session.LastConnectedAt.UTC().Format(timeFormat)
	}
	return resp
}

func toKeyResponse(key domain.APIKey) keyResponse {
	resp := keyResponse{
		ID:           key.ID,
		Name:         key.Name,
		KeyHint:      key.TokenHint,
		Active:       key.Active,
		RateLimit:    key.RateLimit,
		CreatedAt:    key.CreatedAt.UTC().Format(timeFormat),
		RequestCount: key.RequestCount,
	}
	if key.ExpiresAt != nil {
		resp.ExpiresAt = key.ExpiresAt.UTC().Format(timeFormat)
	}
	return resp
}

func toWebhookResponse(webhook domain.Webhook) webhookResponse {
	resp := webhookResponse{
		ID:            webhook.ID,
		URL:           webhook.URL,
		EventType:     string(webhook.EventType),
		Active:        webhook.Active,
		CustomHeaders: webhook.CustomHeaders,
		CreatedAt:     webhook.CreatedAt.UTC().Format(timeFormat),
		SuccessCount:  webhook.SuccessCount,
		FailureCount:  webhook.FailureCount,
	}
	if webhook.LastTriggeredAt != nil {
		resp.LastTriggeredAt = webhook.LastTriggeredAt.UTC().Format(timeFormat)
	}
	return resp
}

// decodeValidated reads the body, checks it against the schema, then decodes
// into dst. Returns false after writing the error response.
func (h *Handler) decodeValidated(w http.ResponseWriter, r *http.Request, sch *santhosh.Schema, dst any) bool {
	raw, ok := h.readBody(w, r)
	if !ok {
		return false
	}
	if err := validateBody(sch, raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return false
	}
	return true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	raw, ok := h.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_input", "invalid json body")
		return false
	}
	return true
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_input", "unable to read request body")
		return nil, false
	}
	return raw, true
}

func (h *Handler) parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid_input", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		h.deps.Logger.Error("encode json response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.deps.Logger.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, tag, message string) {
	h.writeJSON(w, status, map[string]string{"error": tag, "message": message})
}

// domainError maps core errors onto the HTTP error envelope.
func (h *Handler) domainError(w http.ResponseWriter, err error) {
	var transportErr *domain.ErrTransport
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, domain.ErrSessionNotConnected):
		h.writeError(w, http.StatusBadRequest, "session_not_connected", "session is not connected")
	case errors.Is(err, domain.ErrForbidden):
		h.writeError(w, http.StatusForbidden, "forbidden", "resource belongs to another tenant")
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.As(err, &transportErr):
		h.writeError(w, http.StatusBadGateway, "transport_error", transportErr.Error())
	default:
		h.deps.Logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
