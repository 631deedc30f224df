package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns an opaque 64-character hex token. Session
// tokens are stored as-is and reused across logins, so the value
// itself carries no claims or expiry.
func NewSessionToken() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// NewCSRFToken returns a random hex value for the csrftoken cookie.
func NewCSRFToken() (string, error) {
	return randomHex(16)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
