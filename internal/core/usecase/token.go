package usecase

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest under which API key tokens are
// stored and looked up. The plaintext never reaches persistence.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// NewAPIKeyToken generates a fresh key token, e.g. wa_api_9f86d081884c7d65...
func NewAPIKeyToken() string {
	return "wa_api_" + randomHex(16)
}

// NewSessionID generates a session identifier, e.g. wa_3a1f9b2c44d0.
func NewSessionID() string {
	return "wa_" + randomHex(6)
}

// MaskToken builds the hint shown in key listings: first 7 and last 4
// characters with the middle elided.
func MaskToken(token string) string {
	if len(token) <= 11 {
		return token
	}
	return token[:7] + "..." + token[len(token)-4:]
}

func randomHex(n int) string {
	buf := make([]byte, n)
	// rand.Read never fails on supported platforms
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
