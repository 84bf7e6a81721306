package whatsapp

import (
	"context"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/wahub/internal/core/domain"
)

func TestMockClientLifecycle(t *testing.T) {
	ctx := context.Background()
	client := NewMockFactory(nil).NewClient("wa_1", "owner-a")

	if client.Connected() {
		t.Fatal("fresh client must start disconnected")
	}
	if _, err := client.Send(ctx, domain.SendRequest{Kind: domain.SendText}); err == nil {
		t.Fatal("send on disconnected client must fail")
	}

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !client.Connected() {
		t.Fatal("client should report connected")
	}
	phone := client.PhoneNumber()
	if !strings.HasPrefix(phone, "+1") || len(phone) != 12 {
		t.Fatalf("unexpected phone number %q", phone)
	}

	messageID, err := client.Send(ctx, domain.SendRequest{Kind: domain.SendText, To: "+370600", Text: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.HasPrefix(messageID, "msg_") || len(messageID) != len("msg_")+12 {
		t.Fatalf("unexpected message id %q", messageID)
	}

	members, err := client.GroupMembers(ctx, "g1")
	if err != nil {
		t.Fatalf("group members: %v", err)
	}
	if len(members) < 5 || len(members) > 25 {
		t.Fatalf("member count out of range: %d", len(members))
	}
	if !members[0].IsAdmin {
		t.Fatal("first member should be admin")
	}

	if err := client.Disconnect(ctx); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if client.Connected() {
		t.Fatal("client should report disconnected")
	}
	if client.PhoneNumber() != phone {
		t.Fatal("phone number should survive disconnect")
	}
}

func TestMockClientEmitsTransportEvents(t *testing.T) {
	ctx := context.Background()
	var events []domain.OutboundEvent
	factory := NewMockFactory(func(event domain.OutboundEvent) {
		events = append(events, event)
	})

	client := factory.NewClient("wa_3", "owner-a").(*mockClient)
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}

	messageID, err := client.Send(ctx, domain.SendRequest{Kind: domain.SendText, To: "+370600", Text: "hi"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	client.SimulateIncoming("+370611", "atsakymas")
	client.SimulateRead(messageID)

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].EventType != domain.EventMessageDelivered || events[0].Payload["messageId"] != messageID {
		t.Fatalf("unexpected delivered event: %+v", events[0])
	}
	if events[1].EventType != domain.EventMessageReceived || events[1].Payload["from"] != "+370611" {
		t.Fatalf("unexpected received event: %+v", events[1])
	}
	if events[2].EventType != domain.EventMessageRead || events[2].Payload["messageId"] != messageID {
		t.Fatalf("unexpected read event: %+v", events[2])
	}
	for _, event := range events {
		if event.OwnerID != "owner-a" || event.SessionID != "wa_3" {
			t.Fatalf("event missing identity: %+v", event)
		}
	}
}

func TestMockClientReconnectKeepsNumber(t *testing.T) {
	ctx := context.Background()
	client := NewMockFactory(nil).NewClient("wa_2", "owner-a")

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	first := client.PhoneNumber()
	if err := client.Disconnect(ctx); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if client.PhoneNumber() != first {
		t.Fatal("reconnect should keep the paired number")
	}
}
