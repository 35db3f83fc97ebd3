package types

import "fmt"

// ValidationError reports malformed input detected before any network call.
// It is surfaced inline at the form or endpoint that produced it and never
// escalates further.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DetailsError means the checkout session could not be loaded. It is fatal
// for the page view; the payer must reload.
type DetailsError struct {
	Message string
	Err     error
}

func (e *DetailsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DetailsError) Unwrap() error { return e.Err }

// UpstreamError means a vendor or API call failed or returned an unexpected
// shape. Recoverable by manual retry; never retried automatically.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
