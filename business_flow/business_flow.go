// Package business_flow contains the core business logic flows of the service
package business_flow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Context keys for request-scoped values
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// ClientMetadata carries per-request client information used for audit records
type ClientMetadata struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// NewClientMetadata creates client metadata from request information
func NewClientMetadata(ipAddress, userAgent, requestID string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
		RequestID: requestID,
	}
}

// FormField is a single submitted form field. Fields keep the order in
// which they appeared in the request body.
type FormField struct {
	Key   string
	Value string
}

// ParseOrderedSubmission decodes a JSON submission body into its API key and
// the remaining fields in their original order. encoding/json maps discard
// key order, so the object is walked token by token instead.
func ParseOrderedSubmission(body []byte) (apiKey string, fields []FormField, err error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidSubmission)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return "", nil, fmt.Errorf("%w: invalid object key", ErrInvalidSubmission)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}

		value, err := scalarToString(raw)
		if err != nil {
			return "", nil, err
		}

		if key == "api_key" {
			apiKey = value
			continue
		}
		fields = append(fields, FormField{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	return apiKey, fields, nil
}

// scalarToString renders a JSON value as the text used in the outgoing message
func scalarToString(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case nil:
		return "", nil
	default:
		// Arrays and nested objects are passed through as compact JSON
		compact, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		return string(compact), nil
	}
}
