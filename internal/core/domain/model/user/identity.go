package user

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var ErrIdentityIsNotConstructed = errs.NewValueIsRequiredError("identity")

// Identity is the authenticated actor of a call. It is passed explicitly into
// every command and query, never read from ambient state.
type Identity struct {
	userID kernel.ID
	role   Role
	guard  guard.ConstructorGuard
}

func NewIdentity(userID kernel.ID, role Role) (Identity, error) {
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return Identity{}, err
	}
	return Identity{
		userID: userID,
		role:   role,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (i Identity) Validate() error {
	return i.guard.Validate(ErrIdentityIsNotConstructed)
}

func (i Identity) UserID() kernel.ID {
	return i.userID
}

func (i Identity) Role() Role {
	return i.role
}

// Is reports whether the identity belongs to the given user.
func (i Identity) Is(userID kernel.ID) bool {
	return i.userID == userID
}
