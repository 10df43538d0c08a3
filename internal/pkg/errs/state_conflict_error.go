package errs

import (
	"errors"
	"fmt"
)

var ErrStateConflict = errors.New("state conflict")

// StateConflictError is returned when a precondition on the current state of an
// object does not hold. Code names the precondition that failed.
type StateConflictError struct {
	Code   string
	Reason string
}

func NewStateConflictError(code, reason string) *StateConflictError {
	return &StateConflictError{
		Code:   code,
		Reason: reason,
	}
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStateConflict, sanitize(e.Reason))
}

func (e *StateConflictError) Unwrap() error {
	return ErrStateConflict
}

// Is matches another StateConflictError carrying the same code.
func (e *StateConflictError) Is(target error) bool {
	var other *StateConflictError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}
