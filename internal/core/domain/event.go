package domain

import "time"

// OutboundEvent is the ephemeral value passed to the notifier for one
// occurrence of a messaging event. It is never persisted as its own entity.
type OutboundEvent struct {
	OwnerID    string
	SessionID  string
	EventType  EventType
	Payload    map[string]any
	OccurredAt time.Time
}

// DeliveryLog is the forensic record of a single webhook delivery attempt.
// Every attempt produces exactly one row, distinct from the terminal
// success/failure counters on the registration itself.
type DeliveryLog struct {
	ID         int64
	DeliveryID string
	WebhookID  int64
	OwnerID    string
	SessionID  string
	URL        string
	EventType  EventType
	Attempt    int
	StatusCode int
	Success    bool
	Error      string
	CreatedAt  time.Time
}

// DeliveryLogFilter narrows audit listings. Zero values mean no filtering on
// that field; Limit <= 0 falls back to the repository default.
type DeliveryLogFilter struct {
	WebhookID int64
	AfterID   int64
	Limit     int
}
