package ports

import (
	"context"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

// GroupMember describes one participant of a group chat as reported by the
// transport.
type GroupMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

// TransportClient is the capability interface over one messaging connection.
// Device pairing and session persistence are the transport's own business;
// the core only connects, sends, and observes state.
type TransportClient interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Connected() bool
	PhoneNumber() string
	// Send delivers one message and returns the transport message id.
	Send(ctx context.Context, req domain.SendRequest) (string, error)
	GroupMembers(ctx context.Context, groupID string) ([]GroupMember, error)
}

// TransportFactory materializes a client handle for a session. The dispatcher
// registry guarantees it is called at most once per live session id.
type TransportFactory interface {
	NewClient(sessionID, ownerID string) TransportClient
}

// UINotifier pushes an event toward any live dashboard surface. Implementations
// must not block the caller.
type UINotifier interface {
	NotifyUser(ownerID string, event string, data map[string]any)
}
