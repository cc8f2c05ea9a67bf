package oerror

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBlock is wrapped by errors for block names that have no registered block.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrInvalidScenario is wrapped by errors for scenarios that cannot be simulated.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrInvalidSettings is wrapped by errors for settings outside of their allowed range.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Error is the error type returned at the boundaries of the module.
type Error struct {
	Err     string
	wrapped error
}

// New formats an Error. A %w verb in format makes the error wrap the matching argument.
func New(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Err: err.Error(), wrapped: errors.Unwrap(err)}
}

func (e *Error) Error() string {
	return e.Err
}

func (e *Error) Unwrap() error {
	return e.wrapped
}
