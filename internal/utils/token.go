package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const checkInTokenBytes = 32

// GenerateCheckInToken returns a URL-safe bearer token for ticket check-in.
// Issued exactly once per registration and never regenerated.
func GenerateCheckInToken() (string, error) {
	buf := make([]byte, checkInTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate check-in token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
