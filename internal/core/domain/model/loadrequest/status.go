package loadrequest

import (
	"fmt"

	"loadboard/internal/pkg/errs"
)

type Status int

const (
	StatusUnknown Status = iota
	Pending
	Confirmed
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Confirmed:     "confirmed",
		Rejected:      "rejected",
	}
}

func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid request status", s))
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > Rejected {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid request status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// resolve is the single transition out of pending.
func (s Status) resolve(to Status) (Status, error) {
	if s != Pending {
		return StatusUnknown, errs.NewStateConflictError(ErrRequestAlreadyProcessed.Code,
			fmt.Sprintf("request is %s, only pending requests can be %s", s, to))
	}
	return to, nil
}
