package utils

import (
	"time"
)

// API key constants
const (
	// APIKeyPrefix is prepended to every generated API key
	APIKeyPrefix = "zf_"

	// APIKeyRandomBytes is the number of random bytes per key (24 hex characters)
	APIKeyRandomBytes = 12
)

// Request handling constants
const (
	// RequestTimeout bounds the handling of a single HTTP request
	RequestTimeout = 30 * time.Second
)
