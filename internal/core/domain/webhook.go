package domain

import (
	"fmt"
	"net/url"
	"time"
)

// EventType identifies the kind of messaging event a webhook can subscribe to.
type EventType string

const (
	EventMessageReceived  EventType = "message_received"
	EventMessageDelivered EventType = "message_delivered"
	EventMessageRead      EventType = "message_read"
	EventMessageSent      EventType = "message_sent"
	EventAll              EventType = "all"
)

// ValidEventFilter reports whether t is allowed as a registration filter.
// message_sent is only emitted, never subscribed to directly; "all" covers it.
func ValidEventFilter(t EventType) bool {
	switch t {
	case EventMessageReceived, EventMessageDelivered, EventMessageRead, EventAll:
		return true
	}
	return false
}

// Webhook is a tenant-registered delivery target. Success/failure counters and
// LastTriggeredAt are owned exclusively by the notifier and record the final
// outcome of each notify, not individual attempts.
type Webhook struct {
	ID              int64
	OwnerID         string
	URL             string
	EventType       EventType
	Active          bool
	Secret          string
	CustomHeaders   map[string]string
	CreatedAt       time.Time
	LastTriggeredAt *time.Time
	SuccessCount    int64
	FailureCount    int64
}

// Matches reports whether an active registration should receive an event of
// the given kind.
func (w Webhook) Matches(kind EventType) bool {
	if !w.Active {
		return false
	}
	return w.EventType == EventAll || w.EventType == kind
}

func (w Webhook) Validate() error {
	u, err := url.Parse(w.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: webhook url must be http(s)", ErrInvalidInput)
	}
	if !ValidEventFilter(w.EventType) {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, w.EventType)
	}
	return nil
}
