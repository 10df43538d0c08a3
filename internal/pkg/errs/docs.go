// Package errs holds the error taxonomy of the load board.
//
// Validation failures (ValueIsRequiredError, ValueIsInvalidError,
// ValueIsOutOfRangeError), a missing object (ObjectNotFoundError) and a lost
// optimistic version race (VersionIsInvalidError) each unwrap to a sentinel, so
// callers classify them with errors.Is.
//
// AccessDeniedError and StateConflictError carry a stable Code, for example
// "load_not_owned" or "already_paid". Two errors of the same type match under
// errors.Is when their codes are equal, which lets domain packages export them
// as sentinels:
//
//	var ErrAlreadyPaid = errs.NewStateConflictError("already_paid", "load is already paid")
//
//	if errors.Is(err, load.ErrAlreadyPaid) { ... }
//
// The HTTP gateway maps the taxonomy to status codes and uses Code as the
// machine-readable part of the response body.
package errs
