package domain

import "time"

// APIKey is a tenant credential for the send API. The plaintext token is never
// stored; TokenHash holds its SHA-256 hex digest and TokenHint a masked form
// for listings. A key is usable iff Active and not past ExpiresAt.
type APIKey struct {
	ID           int64
	OwnerID      string
	Name         string
	TokenHash    string
	TokenHint    string
	Active       bool
	RateLimit    int // requests per minute; 0 disables limiting
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	RequestCount int64
}

func (k APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !k.ExpiresAt.After(now)
}
