package tts

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoAPIKey  = errors.New("tts: API key required")
	ErrNoVoiceID = errors.New("tts: voice ID required")
	ErrEmptyText = errors.New("tts: empty text")
)

// APIError is a non-2xx answer from the synthesis endpoint.
type APIError struct {
	StatusCode int
	Status     string // detail.status, e.g. "quota_exceeded"
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("tts: status %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("tts: status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports rate limiting and server errors.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Unauthorized reports a rejected API key.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}
