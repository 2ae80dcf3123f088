package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShareTokenBytes is the entropy of a share token before hex encoding
const ShareTokenBytes = 32

// TokenGenerator produces share tokens
type TokenGenerator func() (string, error)

// GenerateShareToken returns 32 bytes from the OS CSPRNG as 64 lowercase hex characters
func GenerateShareToken() (string, error) {
	b := make([]byte, ShareTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
