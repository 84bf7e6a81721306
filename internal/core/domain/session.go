package domain

import "time"

// Session is one logical WhatsApp device pairing scoped to a tenant. The
// live connection handle lives in the dispatcher's registry; this row holds
// the persisted state mirrored from it.
type Session struct {
	ID              int64
	OwnerID         string
	SessionID       string
	Name            string
	PhoneNumber     string
	Connected       bool
	LastConnectedAt *time.Time
	CreatedAt       time.Time
	MessageCount    int64
}
