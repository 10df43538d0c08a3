package kernel

import (
	"fmt"
	"strconv"

	"loadboard/internal/pkg/errs"
)

// ID identifies loads, load requests and users. Identities are assigned by the
// store on creation and are always positive.
type ID int64

// ErrIDIsRequired is returned when a zero ID is validated.
var ErrIDIsRequired = errs.NewValueIsRequiredError("id")

// IDFromString parses a decimal identity.
func IDFromString(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%q is not a number", s))
	}
	id := ID(n)
	if err := id.Validate(); err != nil {
		return 0, err
	}
	return id, nil
}

// Validate rejects the zero value and negative identities.
func (id ID) Validate() error {
	if id == 0 {
		return ErrIDIsRequired
	}
	if id < 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
