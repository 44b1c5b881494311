// Package errors defines the typed failure taxonomy for AI client resolution
// and upstream vendor calls. Provider-specific error payloads are mapped into
// these types; nothing in the resolution path surfaces a raw vendor error.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// CodeNotConfigured is the machine-readable code the HTTP guard and the
// frontend key off when no provider credential can be resolved.
const CodeNotConfigured = "AI_NOT_CONFIGURED"

// DefaultAction is the remediation hint attached to a NotConfiguredError.
const DefaultAction = "Please configure an AI provider (OpenRouter, OpenAI, Gemini, Grok, or Anthropic) in settings"

// NotConfiguredError is the single terminal failure of credential resolution:
// no active stored credential and no environment key. It is recoverable by
// the end user and must never surface as a 500.
type NotConfiguredError struct {
	Action string
}

func (e *NotConfiguredError) Error() string {
	return "no AI provider configured"
}

// Code returns the stable error code for the guard envelope.
func (e *NotConfiguredError) Code() string { return CodeNotConfigured }

// NewNotConfiguredError creates a NotConfiguredError with the default hint.
func NewNotConfiguredError() *NotConfiguredError {
	return &NotConfiguredError{Action: DefaultAction}
}

// IsNotConfigured reports whether err is a NotConfiguredError.
func IsNotConfigured(err error) bool {
	var nc *NotConfiguredError
	return errors.As(err, &nc)
}

// UnsupportedProviderError indicates a stored credential names a provider
// outside the closed enumeration. Unreachable with a healthy store, handled
// defensively because the data may have been written by another schema
// version.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %s", e.Provider)
}

// TimeoutError indicates the bounded vendor call exceeded its deadline. It is
// kept distinct from UpstreamError so callers can apply different backoff.
type TimeoutError struct {
	Provider string
	Message  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("[timeout] %s (provider=%s)", e.Message, e.Provider)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// UpstreamError is a standardized vendor failure: a non-2xx HTTP result or a
// payload the adapter could not parse. It carries the vendor's own message
// where available for diagnostics.
type UpstreamError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Retryable  bool   `json:"-"`
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("[%s] %s (provider=%s, model=%s, code=%d)",
		e.Type, e.Message, e.Provider, e.Model, e.StatusCode)
}

// HTTPStatusCode returns the status code to surface for the error.
func (e *UpstreamError) HTTPStatusCode() int {
	if e.StatusCode > 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// Upstream error types as constants for consistency.
const (
	TypeAuthentication     = "authentication_error"
	TypeRateLimit          = "rate_limit_error"
	TypeInvalidRequest     = "invalid_request_error"
	TypeNotFound           = "not_found_error"
	TypeServiceUnavailable = "service_unavailable_error"
	TypeInternalError      = "internal_error"
	TypeMalformedResponse  = "malformed_response_error"
	TypeUnsupported        = "unsupported_operation_error"
)

// NewAuthenticationError creates an authentication error (401).
func NewAuthenticationError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Type:       TypeAuthentication,
		Provider:   provider,
		Model:      model,
		Retryable:  false,
	}
}

// NewRateLimitError creates a rate limit error (429).
func NewRateLimitError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		Type:       TypeRateLimit,
		Provider:   provider,
		Model:      model,
		Retryable:  true,
	}
}

// NewInvalidRequestError creates an invalid request error (400).
func NewInvalidRequestError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Type:       TypeInvalidRequest,
		Provider:   provider,
		Model:      model,
		Retryable:  false,
	}
}

// NewNotFoundError creates a not found error (404).
func NewNotFoundError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusNotFound,
		Message:    message,
		Type:       TypeNotFound,
		Provider:   provider,
		Model:      model,
		Retryable:  false,
	}
}

// NewServiceUnavailableError creates a service unavailable error (503).
func NewServiceUnavailableError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    message,
		Type:       TypeServiceUnavailable,
		Provider:   provider,
		Model:      model,
		Retryable:  true,
	}
}

// NewInternalError creates an internal server error (500).
func NewInternalError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Type:       TypeInternalError,
		Provider:   provider,
		Model:      model,
		Retryable:  false,
	}
}

// NewMalformedResponseError creates an error for an unparsable vendor payload.
func NewMalformedResponseError(provider, model, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusBadGateway,
		Message:    message,
		Type:       TypeMalformedResponse,
		Provider:   provider,
		Model:      model,
		Retryable:  false,
	}
}

// NewUnsupportedOperationError creates an error for an operation the provider
// has no endpoint for (e.g. image generation outside OpenAI).
func NewUnsupportedOperationError(provider, message string) *UpstreamError {
	return &UpstreamError{
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Type:       TypeUnsupported,
		Provider:   provider,
		Retryable:  false,
	}
}
