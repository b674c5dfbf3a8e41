// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Request validation errors
var (
	ErrNoSites      = errors.New("sites is required")
	ErrNoKeywords   = errors.New("keywords must contain at least one keyword")
	ErrEmptyKeyword = errors.New("keywords must not contain empty strings")
	ErrInvalidSite  = errors.New("invalid site URL")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
)

// ScrapeError wraps errors with additional context
type ScrapeError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *ScrapeError) Is(target error) bool {
	if t, ok := target.(*ScrapeError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewScrapeError creates a new ScrapeError
func NewScrapeError(code ErrorCode, message string, err error) *ScrapeError {
	return &ScrapeError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Details:    make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *ScrapeError) WithDetail(key string, value interface{}) *ScrapeError {
	e.Details[key] = value
	return e
}

// IsValidation reports whether err is a request validation failure
func IsValidation(err error) bool {
	return errors.Is(err, &ScrapeError{Code: ErrCodeValidation})
}

// StatusCode returns the HTTP status attached to an HTTP_STATUS error, or 0
func StatusCode(err error) int {
	var se *ScrapeError
	if errors.As(err, &se) {
		if code, ok := se.Details["status"].(int); ok {
			return code
		}
	}
	return 0
}
