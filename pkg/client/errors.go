package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during a
	// backoff wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// Category groups failures by how callers should react to them.
type Category string

const (
	// CategoryRateLimit indicates the remote quota window is exhausted (429).
	CategoryRateLimit Category = "rate_limit"

	// CategoryPermission indicates the caller lacks access (403).
	CategoryPermission Category = "permission"

	// CategoryNotFound indicates the spreadsheet or range does not exist (404).
	CategoryNotFound Category = "not_found"

	// CategoryTransient indicates a temporary server or connection failure.
	CategoryTransient Category = "transient"

	// CategoryUnknown is everything else.
	CategoryUnknown Category = "unknown"
)

// ClassifiedError is the single error shape surfaced at the client boundary.
// It is immutable once constructed; each failed attempt produces a fresh one.
type ClassifiedError struct {
	// StatusCode is the HTTP status of the failure, 0 for transport-level
	// failures that never produced a response.
	StatusCode int

	// Code is the status code as a string ("429", "503"), or a transport
	// code ("timeout", "connection_reset", "dns_not_found").
	Code string

	Category  Category
	Retryable bool
	Message   string

	// Err is the original failure, preserved for errors.Is/As.
	Err error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("sheets %s error (status %d): %s", e.Category, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sheets %s error (%s): %s", e.Category, e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// userMessages maps each category to a fixed human-readable sentence.
// Deliberately not localized and not configurable; callers branching
// programmatically use Category and Retryable instead.
var userMessages = map[Category]string{
	CategoryRateLimit:  "Too many requests. Please slow down and try again shortly.",
	CategoryPermission: "You do not have permission to access this spreadsheet.",
	CategoryNotFound:   "The requested spreadsheet or range was not found.",
	CategoryTransient:  "A temporary error occurred. Please try again.",
	CategoryUnknown:    "An unexpected error occurred.",
}

// UserMessage returns a fixed sentence derived from the error's category.
func (e *ClassifiedError) UserMessage() string {
	return userMessages[e.Category]
}
