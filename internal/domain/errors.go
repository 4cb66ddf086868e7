package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidImage is the sentinel wrapped by InvalidImageError so callers can
// match with errors.Is without caring about the detail.
var ErrInvalidImage = errors.New("invalid image")

// InvalidImageError rejects unusable pixel input. Never retried.
type InvalidImageError struct {
	Reason string
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image: %s", e.Reason)
}

func (e *InvalidImageError) Unwrap() error { return ErrInvalidImage }

// ClassificationError marks an internal scoring failure.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ServiceErrorKind distinguishes the handling path for an external service
// failure.
type ServiceErrorKind string

const (
	// RateLimited means advance to the next model after a short pause.
	RateLimited ServiceErrorKind = "rate_limited"
	// AuthFailure is fatal; retrying or switching models cannot help.
	AuthFailure ServiceErrorKind = "auth_failure"
	// Unavailable covers transient transport and server-side failures.
	Unavailable ServiceErrorKind = "unavailable"
)

// ExternalServiceError classifies a failed call to the vision service.
type ExternalServiceError struct {
	Kind       ServiceErrorKind
	StatusCode int
	Model      string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	msg := fmt.Sprintf("external service %s", e.Kind)
	if e.Model != "" {
		msg += fmt.Sprintf(" (model %s)", e.Model)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// HTTPStatusCode satisfies the httpx retry classifier.
func (e *ExternalServiceError) HTTPStatusCode() int { return e.StatusCode }

// IsRateLimited reports whether err is a rate-limit classification.
func IsRateLimited(err error) bool {
	var se *ExternalServiceError
	return errors.As(err, &se) && se.Kind == RateLimited
}

// IsAuthFailure reports whether err is an authentication failure.
func IsAuthFailure(err error) bool {
	var se *ExternalServiceError
	return errors.As(err, &se) && se.Kind == AuthFailure
}

// ParseError marks a response that could not be decoded into the expected
// payload shape. Soft within the orchestrator: the next model gets a try.
type ParseError struct {
	Reason  string
	Snippet string
}

func (e *ParseError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("parse response: %s: %q", e.Reason, e.Snippet)
	}
	return fmt.Sprintf("parse response: %s", e.Reason)
}

// OrchestrationExhausted means every model and stage combination failed.
// Carries the last underlying error for the degradation log line.
type OrchestrationExhausted struct {
	Attempts int
	Err      error
}

func (e *OrchestrationExhausted) Error() string {
	return fmt.Sprintf("external analysis exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *OrchestrationExhausted) Unwrap() error { return e.Err }
