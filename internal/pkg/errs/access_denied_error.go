package errs

import (
	"errors"
	"fmt"
)

var ErrAccessDenied = errors.New("access denied")

// AccessDeniedError is returned when the acting identity has the wrong role
// or does not own the object it tries to act on.
type AccessDeniedError struct {
	Code   string
	Reason string
}

func NewAccessDeniedError(code, reason string) *AccessDeniedError {
	return &AccessDeniedError{
		Code:   code,
		Reason: reason,
	}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccessDenied, sanitize(e.Reason))
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// Is matches another AccessDeniedError carrying the same code, so package level
// values can be used as errors.Is targets.
func (e *AccessDeniedError) Is(target error) bool {
	var other *AccessDeniedError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}
