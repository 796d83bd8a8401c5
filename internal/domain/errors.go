package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Worker response errors
	ErrRequestFailed        ErrorCode = "REQUEST_FAILED"
	ErrEmptyResponse        ErrorCode = "EMPTY_RESPONSE"
	ErrMalformedJSON        ErrorCode = "MALFORMED_JSON"
	ErrInvalidResponseShape ErrorCode = "INVALID_RESPONSE_SHAPE"
	ErrRateLimited          ErrorCode = "RATE_LIMITED"

	// Question errors
	ErrValidationFailed           ErrorCode = "VALIDATION_FAILED"
	ErrInsufficientValidQuestions ErrorCode = "INSUFFICIENT_VALID_QUESTIONS"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Err     error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithContext attaches a key/value pair to the error, returning the error for chaining.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Helper functions for common errors
func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewRequestFailedError(status int) *DomainError {
	return NewError(ErrRequestFailed, fmt.Sprintf("Worker request failed with status %d", status), nil).
		WithContext("status", status)
}

func NewEmptyResponseError() *DomainError {
	return NewError(ErrEmptyResponse, "Worker returned an empty response body", nil)
}

func NewMalformedJSONError(err error) *DomainError {
	return NewError(ErrMalformedJSON, "Worker returned a body that is not valid JSON", err)
}

func NewInvalidResponseShapeError(field string) *DomainError {
	return NewError(ErrInvalidResponseShape, fmt.Sprintf("Worker response is missing required field: %s", field), nil).
		WithContext("field", field)
}

func NewRateLimitedError(retryAfter int) *DomainError {
	return NewError(ErrRateLimited, fmt.Sprintf("Rate limited, retry after %d seconds", retryAfter), nil).
		WithContext("retry_after", retryAfter)
}

func NewValidationFailedError(message string) *DomainError {
	return NewError(ErrValidationFailed, message, nil)
}

func NewInsufficientValidQuestionsError(count int) *DomainError {
	return NewError(ErrInsufficientValidQuestions,
		fmt.Sprintf("Only %d valid questions were generated, at least %d are required", count, MinExamQuestions), nil).
		WithContext("count", count)
}
