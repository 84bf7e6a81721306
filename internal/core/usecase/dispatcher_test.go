package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

type stubSessionRepo struct {
	getFn      func(ctx context.Context, sessionID string) (domain.Session, error)
	increments atomic.Int64
}

func (s *stubSessionRepo) Create(_ context.Context, session domain.Session) (domain.Session, error) {
	return session, nil
}

func (s *stubSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (domain.Session, error) {
	if s.getFn != nil {
		return s.getFn(ctx, sessionID)
	}
	return domain.Session{}, domain.ErrNotFound
}

func (s *stubSessionRepo) ListByOwner(context.Context, string) ([]domain.Session, error) {
	return nil, nil
}

func (s *stubSessionRepo) UpdateStatus(context.Context, string, bool, string) error { return nil }

func (s *stubSessionRepo) IncrementMessageCount(context.Context, string) error {
	s.increments.Add(1)
	return nil
}

func (s *stubSessionRepo) Delete(context.Context, string) (bool, error) { return true, nil }

type stubTransportClient struct {
	connected bool
	sendFn    func(ctx context.Context, req domain.SendRequest) (string, error)
	sends     atomic.Int64
}

func (c *stubTransportClient) Connect(context.Context) error    { c.connected = true; return nil }
func (c *stubTransportClient) Disconnect(context.Context) error { c.connected = false; return nil }
func (c *stubTransportClient) Connected() bool                  { return c.connected }
func (c *stubTransportClient) PhoneNumber() string              { return "+10000000000" }

func (c *stubTransportClient) Send(ctx context.Context, req domain.SendRequest) (string, error) {
	c.sends.Add(1)
	if c.sendFn != nil {
		return c.sendFn(ctx, req)
	}
	return "msg_stub", nil
}

func (c *stubTransportClient) GroupMembers(context.Context, string) ([]ports.GroupMember, error) {
	return []ports.GroupMember{{ID: "a@c.us", Name: "A", IsAdmin: true}}, nil
}

type stubTransportFactory struct {
	mu      sync.Mutex
	created int
	client  *stubTransportClient
}

func (f *stubTransportFactory) NewClient(sessionID, ownerID string) ports.TransportClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	if f.client == nil {
		f.client = &stubTransportClient{}
	}
	return f.client
}

func ownedSession(ownerID, sessionID string) domain.Session {
	return domain.Session{OwnerID: ownerID, SessionID: sessionID, Name: "test", Connected: true}
}

func textSend(sessionID string) domain.SendRequest {
	return domain.SendRequest{SessionID: sessionID, Kind: domain.SendText, To: "+370600", Text: "labas"}
}

func TestDispatcherSendSuccess(t *testing.T) {
	repo := &stubSessionRepo{getFn: func(_ context.Context, sessionID string) (domain.Session, error) {
		return ownedSession("owner-a", sessionID), nil
	}}
	factory := &stubTransportFactory{client: &stubTransportClient{connected: true}}
	dispatcher := NewDispatcher(repo, NewClientRegistry(factory), zap.NewNop())

	messageID, err := dispatcher.Send(context.Background(), "owner-a", textSend("wa_1"))
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if messageID != "msg_stub" {
		t.Fatalf("unexpected message id %q", messageID)
	}
	if got := repo.increments.Load(); got != 1 {
		t.Fatalf("expected 1 message count increment, got %d", got)
	}
}

func TestDispatcherSendForbidden(t *testing.T) {
	repo := &stubSessionRepo{getFn: func(_ context.Context, sessionID string) (domain.Session, error) {
		return ownedSession("owner-a", sessionID), nil
	}}
	factory := &stubTransportFactory{client: &stubTransportClient{connected: true}}
	dispatcher := NewDispatcher(repo, NewClientRegistry(factory), zap.NewNop())

	_, err := dispatcher.Send(context.Background(), "owner-b", textSend("wa_1"))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if got := factory.client.sends.Load(); got != 0 {
		t.Fatalf("cross-tenant send must never reach transport, got %d sends", got)
	}
	if got := repo.increments.Load(); got != 0 {
		t.Fatalf("cross-tenant send must not count, got %d increments", got)
	}
}

func TestDispatcherSendNotConnected(t *testing.T) {
	repo := &stubSessionRepo{getFn: func(_ context.Context, sessionID string) (domain.Session, error) {
		return ownedSession("owner-a", sessionID), nil
	}}
	factory := &stubTransportFactory{client: &stubTransportClient{connected: false}}
	dispatcher := NewDispatcher(repo, NewClientRegistry(factory), zap.NewNop())

	_, err := dispatcher.Send(context.Background(), "owner-a", textSend("wa_1"))
	if !errors.Is(err, domain.ErrSessionNotConnected) {
		t.Fatalf("expected not connected, got %v", err)
	}
}

func TestDispatcherSendTransportError(t *testing.T) {
	repo := &stubSessionRepo{getFn: func(_ context.Context, sessionID string) (domain.Session, error) {
		return ownedSession("owner-a", sessionID), nil
	}}
	boom := errors.New("socket closed")
	factory := &stubTransportFactory{client: &stubTransportClient{
		connected: true,
		sendFn:    func(context.Context, domain.SendRequest) (string, error) { return "", boom },
	}}
	dispatcher := NewDispatcher(repo, NewClientRegistry(factory), zap.NewNop())

	_, err := dispatcher.Send(context.Background(), "owner-a", textSend("wa_1"))
	var transportErr *domain.ErrTransport
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("transport error must wrap the cause, got %v", err)
	}
	if got := repo.increments.Load(); got != 0 {
		t.Fatalf("failed send must not count, got %d increments", got)
	}
}

func TestDispatcherInvalidRequest(t *testing.T) {
	dispatcher := NewDispatcher(&stubSessionRepo{}, NewClientRegistry(&stubTransportFactory{}), zap.NewNop())

	_, err := dispatcher.Send(context.Background(), "owner-a", domain.SendRequest{Kind: domain.SendText})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestClientRegistrySingleHandle(t *testing.T) {
	factory := &stubTransportFactory{}
	registry := NewClientRegistry(factory)

	var wg sync.WaitGroup
	clients := make([]ports.TransportClient, 16)
	for i := range clients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i] = registry.Get("wa_same", "owner-a")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(clients); i++ {
		if clients[i] != clients[0] {
			t.Fatal("registry handed out more than one handle for the same session")
		}
	}
	if factory.created != 1 {
		t.Fatalf("factory called %d times, want 1", factory.created)
	}
}

func TestClientRegistryRemove(t *testing.T) {
	registry := NewClientRegistry(&stubTransportFactory{})
	first := registry.Get("wa_1", "owner-a")

	removed, ok := registry.Remove("wa_1")
	if !ok || removed != first {
		t.Fatal("remove should return the live handle")
	}
	if _, ok := registry.Remove("wa_1"); ok {
		t.Fatal("second remove should find nothing")
	}
}
