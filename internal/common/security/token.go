package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SessionTokenBytes gives 256 bits of entropy per token.
const SessionTokenBytes = 32

// GenerateSessionToken returns a fresh opaque session token, hex-encoded.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
