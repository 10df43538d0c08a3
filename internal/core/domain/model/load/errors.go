package load

import "loadboard/internal/pkg/errs"

// Failures callers branch on. They match any error with the same code via errors.Is.
var (
	ErrLoadNotAvailable     = errs.NewStateConflictError("load_not_available", "load is not available")
	ErrLoadWrongState       = errs.NewStateConflictError("load_wrong_state", "load is in the wrong state")
	ErrNotDelivered         = errs.NewStateConflictError("not_delivered", "load is not delivered")
	ErrAlreadyPaid          = errs.NewStateConflictError("already_paid", "load is already paid")
	ErrPaymentWrongState    = errs.NewStateConflictError("payment_wrong_state", "payment cannot be settled")
	ErrSelfRequestForbidden = errs.NewAccessDeniedError("self_request_forbidden", "cannot request own load")
	ErrNotAssignedDriver    = errs.NewAccessDeniedError("not_assigned_driver", "not the assigned driver")
	ErrLoadIsNotConstructed = errs.NewValueIsRequiredError("load must be created via NewLoad or RestoreLoad")
)
