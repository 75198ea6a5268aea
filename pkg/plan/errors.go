package plan

import (
	"errors"
	"fmt"
)

// ErrParseFailure is returned when a response names nothing callable.
var ErrParseFailure = errors.New("plan: no action found in response")

// ParseError carries the Next Action text that could not be parsed.
type ParseError struct {
	NextAction string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.NextAction == "" {
		return "plan: response has no Next Action"
	}
	return fmt.Sprintf("plan: cannot parse next action %q", e.NextAction)
}

// Unwrap returns ErrParseFailure.
func (e *ParseError) Unwrap() error {
	return ErrParseFailure
}
