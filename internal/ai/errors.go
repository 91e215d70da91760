package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/CodexForgeBR/materials-assistant/internal/completion"
)

// ConfigurationError reports a missing or invalid setting. It is never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// TransientOverloadError marks a remote failure that signals temporary
// unavailability (HTTP 503 or an "overloaded" marker).
type TransientOverloadError struct {
	Err error
}

func (e *TransientOverloadError) Error() string {
	return "transient overload: " + e.Err.Error()
}

func (e *TransientOverloadError) Unwrap() error {
	return e.Err
}

// FatalRequestError wraps any non-transient remote failure. The message of
// the underlying error is propagated unchanged.
type FatalRequestError struct {
	Err error
}

func (e *FatalRequestError) Error() string {
	return e.Err.Error()
}

func (e *FatalRequestError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is returned after every allowed attempt failed with a
// transient overload.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// IsTransientOverload reports whether err should be retried.
//
// A structured HTTP failure (*openai.APIError, *openai.RequestError or
// *completion.StatusError) decides by its status code (503), or by an
// "overloaded" marker in the provider's message. Any other error falls back
// to substring matching on "503" or "overloaded".
func IsTransientOverload(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode == http.StatusServiceUnavailable || containsOverloaded(apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusServiceUnavailable ||
			containsOverloaded(string(reqErr.Body))
	}
	var statusErr *completion.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusServiceUnavailable || containsOverloaded(statusErr.Body)
	}

	msg := err.Error()
	return strings.Contains(msg, "503") || containsOverloaded(msg)
}

func containsOverloaded(s string) bool {
	return strings.Contains(strings.ToLower(s), "overloaded")
}
