package user

import (
	"fmt"

	"loadboard/internal/pkg/errs"
)

// Role is chosen at registration and never changes.
type Role int

const (
	RoleUnknown Role = iota
	Sender
	Driver
	TruckOwner
	Receiver
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "unknown",
		Sender:      "sender",
		Driver:      "driver",
		TruckOwner:  "truck_owner",
		Receiver:    "receiver",
	}
}

func RoleFromString(s string) (Role, error) {
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > Receiver {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// IsCarrier reports whether the role bids on and hauls loads.
func (r Role) IsCarrier() bool {
	return r == Driver || r == TruckOwner
}
