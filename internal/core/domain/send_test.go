package domain

import (
	"errors"
	"testing"
)

func TestSendRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     SendRequest
		wantErr bool
	}{
		{"text ok", SendRequest{SessionID: "wa_1", Kind: SendText, To: "+3706", Text: "hi"}, false},
		{"text missing to", SendRequest{SessionID: "wa_1", Kind: SendText, Text: "hi"}, true},
		{"text missing text", SendRequest{SessionID: "wa_1", Kind: SendText, To: "+3706"}, true},
		{"media ok", SendRequest{SessionID: "wa_1", Kind: SendMedia, To: "+3706", MediaURL: "https://x/y.png"}, false},
		{"media missing url", SendRequest{SessionID: "wa_1", Kind: SendMedia, To: "+3706"}, true},
		{"reply ok", SendRequest{SessionID: "wa_1", Kind: SendReply, QuotedID: "msg_1", Text: "yes"}, false},
		{"reply missing quoted", SendRequest{SessionID: "wa_1", Kind: SendReply, Text: "yes"}, true},
		{"group ok", SendRequest{SessionID: "wa_1", Kind: SendGroup, GroupID: "g1", Text: "all"}, false},
		{"group missing text", SendRequest{SessionID: "wa_1", Kind: SendGroup, GroupID: "g1"}, true},
		{"missing session", SendRequest{Kind: SendText, To: "+3706", Text: "hi"}, true},
		{"unknown kind", SendRequest{SessionID: "wa_1", Kind: "broadcast", To: "+3706", Text: "hi"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWebhookMatches(t *testing.T) {
	received := Webhook{Active: true, EventType: EventMessageReceived}
	if !received.Matches(EventMessageReceived) {
		t.Fatal("expected exact event type to match")
	}
	if received.Matches(EventMessageRead) {
		t.Fatal("did not expect other event type to match")
	}

	all := Webhook{Active: true, EventType: EventAll}
	if !all.Matches(EventMessageSent) {
		t.Fatal("expected all filter to match every kind")
	}

	inactive := Webhook{Active: false, EventType: EventAll}
	if inactive.Matches(EventMessageReceived) {
		t.Fatal("inactive registration must never match")
	}
}

func TestWebhookValidate(t *testing.T) {
	ok := Webhook{URL: "https://example.com/hook", EventType: EventAll}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badURL := Webhook{URL: "ftp://example.com", EventType: EventAll}
	if err := badURL.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for non-http url, got %v", err)
	}

	// message_sent is emitted, not subscribable; "all" is the way to get it.
	sentFilter := Webhook{URL: "https://example.com/hook", EventType: EventMessageSent}
	if err := sentFilter.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for message_sent filter, got %v", err)
	}
}
