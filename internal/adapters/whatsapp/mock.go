// Package whatsapp provides transport implementations behind the core's
// capability interface. The mock client stands in for a real device pairing:
// it fabricates a phone number on connect and message ids on send, which is
// enough surface for the gateway, its tests, and local development.
package whatsapp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
	"github.com/atvirokodosprendimai/wahub/internal/core/ports"
)

// EventSink receives transport-originated events (inbound messages, delivery
// receipts) so the application can fan them out to webhooks.
type EventSink func(event domain.OutboundEvent)

type MockFactory struct {
	sink EventSink
}

func NewMockFactory(sink EventSink) *MockFactory {
	return &MockFactory{sink: sink}
}

func (f *MockFactory) NewClient(sessionID, ownerID string) ports.TransportClient {
	return &mockClient{sessionID: sessionID, ownerID: ownerID, sink: f.sink}
}

type mockClient struct {
	sessionID string
	ownerID   string
	sink      EventSink

	mu          sync.Mutex
	connected   bool
	phoneNumber string
}

func (c *mockClient) Connect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	// Pairing is sticky: the number assigned on first connect survives
	// reconnects, like a real device registration would.
	if c.phoneNumber == "" {
		c.phoneNumber = "+1" + randomDigits(10)
	}
	return nil
}

func (c *mockClient) Disconnect(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	return nil
}

func (c *mockClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *mockClient) PhoneNumber() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phoneNumber
}

func (c *mockClient) Send(_ context.Context, req domain.SendRequest) (string, error) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return "", fmt.Errorf("client for session %s is not connected", c.sessionID)
	}
	c.mu.Unlock()

	messageID := "msg_" + randomHex(6)
	c.emit(domain.EventMessageDelivered, map[string]any{
		"messageId": messageID,
		"to":        req.To,
	})
	return messageID, nil
}

// SimulateIncoming injects an inbound message, standing in for a contact
// texting the paired number. Useful in development to trigger
// message_received webhooks.
func (c *mockClient) SimulateIncoming(from, text string) {
	c.emit(domain.EventMessageReceived, map[string]any{
		"messageId": "msg_" + randomHex(6),
		"from":      from,
		"text":      text,
	})
}

// SimulateRead injects a read receipt for a previously sent message.
func (c *mockClient) SimulateRead(messageID string) {
	c.emit(domain.EventMessageRead, map[string]any{
		"messageId": messageID,
	})
}

func (c *mockClient) emit(kind domain.EventType, payload map[string]any) {
	if c.sink == nil {
		return
	}
	c.sink(domain.OutboundEvent{
		OwnerID:    c.ownerID,
		SessionID:  c.sessionID,
		EventType:  kind,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func (c *mockClient) GroupMembers(_ context.Context, groupID string) ([]ports.GroupMember, error) {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return nil, fmt.Errorf("client for session %s is not connected", c.sessionID)
	}

	count := 5 + randomInt(20)
	members := make([]ports.GroupMember, 0, count)
	for i := 0; i < count; i++ {
		members = append(members, ports.GroupMember{
			ID:      randomHex(8) + "@c.us",
			Name:    fmt.Sprintf("Member %d", i+1),
			IsAdmin: i < 2,
		})
	}
	return members, nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		digits[i] = byte('0' + randomInt(10))
	}
	return string(digits)
}

func randomInt(max int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
