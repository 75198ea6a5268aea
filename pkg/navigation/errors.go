package navigation

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when the Maps API key is missing.
	ErrNoAPIKey = errors.New("navigation: API key required")

	// ErrNoRoute is returned when directions came back without a route.
	ErrNoRoute = errors.New("navigation: no route found")

	// ErrNoDestination is returned when a route has nowhere to go.
	ErrNoDestination = errors.New("navigation: destination required")
)

// ProviderError wraps a backend failure with the operation that failed.
type ProviderError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("navigation [%s]: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps err with operation context.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Op: op, Err: err}
}
