package load

import (
	"fmt"

	"loadboard/internal/pkg/errs"
)

// Status is the lifecycle state of a load.
//
//	pending ──> requested ──> assigned ──> intransit ──> delivered
//	   │            │             │            │
//	   └────────────┴─────────────┴────────────┴──> canceled
//
// Status values are persisted by name, see String and StatusFromString.
type Status int

const (
	// StatusUnknown catches uninitialized values.
	StatusUnknown Status = iota
	Pending
	Requested
	Assigned
	InTransit
	Delivered
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Requested:     "requested",
		Assigned:      "assigned",
		InTransit:     "intransit",
		Delivered:     "delivered",
		Canceled:      "canceled",
	}
}

// StatusFromString parses a persisted status name.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// IsActive reports whether a driver is currently working the load.
func (s Status) IsActive() bool {
	return s == Assigned || s == InTransit
}

// ValidateCanHaveDriver checks the driver invariant for this status. Canceled
// loads accept either, a driver there is historical.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	switch s {
	case Assigned, InTransit, Delivered:
		if !hasDriver {
			return errs.NewValueIsInvalidErrorWithCause("status is invalid",
				fmt.Errorf("%s is not a valid status to have no driver", s))
		}
	case Pending, Requested:
		if hasDriver {
			return errs.NewValueIsInvalidErrorWithCause("status is invalid",
				fmt.Errorf("%s is not a valid status to have a driver", s))
		}
	case Canceled, StatusUnknown:
	}
	return nil
}

// Request moves a pending load to requested.
func (s Status) Request() (Status, error) {
	if s != Pending {
		return StatusUnknown, errs.NewStateConflictError(ErrLoadNotAvailable.Code,
			fmt.Sprintf("load is %s, only pending loads can be requested", s))
	}
	return Requested, nil
}

// Assign moves a requested load to assigned.
func (s Status) Assign() (Status, error) {
	if s != Requested {
		return StatusUnknown, errs.NewStateConflictError(ErrLoadWrongState.Code,
			fmt.Sprintf("load is %s, only requested loads can be assigned", s))
	}
	return Assigned, nil
}

// Track returns the status after a position report: assigned advances to
// intransit, intransit stays.
func (s Status) Track() (Status, error) {
	if !s.IsActive() {
		return StatusUnknown, errs.NewStateConflictError(ErrLoadWrongState.Code,
			fmt.Sprintf("cannot update location for status: %s", s))
	}
	return InTransit, nil
}

// Deliver moves an intransit load to delivered.
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return StatusUnknown, errs.NewStateConflictError(ErrLoadWrongState.Code,
			fmt.Sprintf("load is %s, only intransit loads can be delivered", s))
	}
	return Delivered, nil
}

// Cancel is valid from every non-terminal status. No operation triggers it yet.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return StatusUnknown, err
	}
	if s.IsTerminal() {
		return StatusUnknown, errs.NewStateConflictError(ErrLoadWrongState.Code,
			fmt.Sprintf("load is %s and cannot be canceled", s))
	}
	return Canceled, nil
}
