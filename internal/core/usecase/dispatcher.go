package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

// ClientRegistry holds at most one live transport handle per session id.
// Get-or-create is atomic with respect to concurrent creations for the same
// id; two handles for one session would be a correctness bug.
type ClientRegistry struct {
	factory ports.TransportFactory

	mu      sync.Mutex
	clients map[string]ports.TransportClient
}

func NewClientRegistry(factory ports.TransportFactory) *ClientRegistry {
	return &ClientRegistry{factory: factory, clients: make(map[string]ports.TransportClient)}
}

func (r *ClientRegistry) Get(sessionID, ownerID string) ports.TransportClient {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[sessionID]
	if !ok {
		client = r.factory.NewClient(sessionID, ownerID)
		r.clients[sessionID] = client
	}
	return client
}

// Remove drops the handle for sessionID, returning it so the caller can
// disconnect it outside the lock.
func (r *ClientRegistry) Remove(sessionID string) (ports.TransportClient, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[sessionID]
	if ok {
		delete(r.clients, sessionID)
	}
	return client, ok
}

// Dispatcher executes sends against a tenant's messaging connection. It is
// deliberately at-most-once: transport errors surface to the caller and are
// never retried here, since a blind retry could duplicate a message.
type Dispatcher struct {
	sessions ports.SessionRepository
	registry *ClientRegistry
	logger   *zap.Logger
}

func NewDispatcher(sessions ports.SessionRepository, registry *ClientRegistry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{sessions: sessions, registry: registry, logger: logger}
}

// Send validates the request, enforces cross-tenant isolation, and delivers
// the message through the session's transport handle. Returns the transport
// message id on success.
func (d *Dispatcher) Send(ctx context.Context, ownerID string, req domain.SendRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	session, err := d.sessions.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return "", err
	}
	if session.OwnerID != ownerID {
		return "", domain.ErrForbidden
	}

	client := d.registry.Get(req.SessionID, session.OwnerID)
	if !client.Connected() {
		return "", domain.ErrSessionNotConnected
	}

	messageID, err := client.Send(ctx, req)
	if err != nil {
		d.logger.Warn("transport send failed",
			zap.String("session_id", req.SessionID),
			zap.String("kind", string(req.Kind)),
			zap.Error(err))
		return "", &domain.ErrTransport{Err: err}
	}

	if err := d.sessions.IncrementMessageCount(ctx, req.SessionID); err != nil {
		d.logger.Warn("increment message count", zap.String("session_id", req.SessionID), zap.Error(err))
	}

	d.logger.Info("message dispatched",
		zap.String("session_id", req.SessionID),
		zap.String("kind", string(req.Kind)),
		zap.String("message_id", messageID))

	return messageID, nil
}

// GroupMembers lists participants of a group chat over the session's
// connection, with the same ownership and connectivity checks as Send.
func (d *Dispatcher) GroupMembers(ctx context.Context, ownerID, sessionID, groupID string) ([]ports.GroupMember, error) {
	session, err := d.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	client := d.registry.Get(sessionID, session.OwnerID)
	if !client.Connected() {
		return nil, domain.ErrSessionNotConnected
	}

	members, err := client.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, &domain.ErrTransport{Err: err}
	}
	return members, nil
}
