package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failure that should reach the client with a specific status
// and message. Anything that is not an APIError is rendered as a generic 500.
type APIError struct {
	StatusCode int          `json:"-"`
	Message    string       `json:"error"`
	Fields     []FieldError `json:"fields,omitempty"`
	cause      error
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying failure, if any
func (e *APIError) Unwrap() error {
	return e.cause
}

// WriteJSON writes the error as the response body with its status code
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// NewAPIError creates an APIError with the given status and message
func NewAPIError(status int, message string) *APIError {
	return &APIError{StatusCode: status, Message: message}
}

func NewBadRequestError(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message)
}

func NewNotFoundError(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func NewConflictError(message string) *APIError {
	return NewAPIError(http.StatusConflict, message)
}

func NewRateLimitError(retryAfterSeconds int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, fmt.Sprintf("too many requests, retry in %d seconds", retryAfterSeconds))
}

func NewInternalError(message string) *APIError {
	if message == "" {
		message = "An unexpected server error occurred"
	}
	return NewAPIError(http.StatusInternalServerError, message)
}

// NewValidationError builds a 400 whose message names the first offending field
func NewValidationError(fields []FieldError) *APIError {
	message := "One or more fields failed validation"
	if len(fields) > 0 {
		message = fmt.Sprintf("%s: %s", fields[0].Field, fields[0].Message)
		if len(fields) > 1 {
			message = fmt.Sprintf("%s (and %d more errors)", message, len(fields)-1)
		}
	}
	return &APIError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Fields:     fields,
	}
}

// WrapError converts an unexpected failure into an APIError whose message
// carries the original text. An error that already is an APIError is
// returned unchanged.
func WrapError(err error, status int, message string) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("%s: %v", message, err),
		cause:      err,
	}
}

// AsAPIError reports whether err is, or wraps, an APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
