package business_flow

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAPIKeyRequired     = errors.New("API key is required")
	ErrInvalidAPIKey      = errors.New("invalid API key")
	ErrInvalidSubmission  = errors.New("invalid submission payload")
)

// BusinessError represents a business logic error with context
type BusinessError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error type checking helpers
func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsAPIKeyRequired(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired)
}

func IsInvalidAPIKey(err error) bool {
	return errors.Is(err, ErrInvalidAPIKey)
}

func IsInvalidSubmission(err error) bool {
	return errors.Is(err, ErrInvalidSubmission)
}
