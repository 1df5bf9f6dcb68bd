// Package utils provides utility functions for the application.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// GenerateAPIKey returns a new opaque API key: the "zf_" prefix followed by
// APIKeyRandomBytes bytes of crypto/rand entropy rendered as lowercase hex.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes for API key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}
