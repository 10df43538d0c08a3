package user

import (
	"errors"
	"fmt"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"
)

var (
	ErrUserIsNotConstructed = errs.NewValueIsRequiredError("user must be created via NewUser or RestoreUser")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errs.NewStateConflictError("username_taken", "username already exists")
)

// User is a registered account. ManagedBy links a driver to the truck owner
// running their truck, it is nil for every other role.
type User struct {
	id           kernel.ID
	username     string
	passwordHash string
	role         Role
	managedBy    *kernel.ID

	isConstructed bool
}

func NewUser(id kernel.ID, username, passwordHash string, role Role, managedBy *kernel.ID) (*User, error) {
	u := &User{isConstructed: true}

	if err := errors.Join(
		u.setID(id),
		u.setUsername(username),
		u.setPasswordHash(passwordHash),
		u.setRole(role, managedBy),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a user from storage with the same checks as NewUser.
func RestoreUser(id kernel.ID, username, passwordHash string, role Role, managedBy *kernel.ID) (*User, error) {
	return NewUser(id, username, passwordHash, role, managedBy)
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.ID {
	return u.id
}

func (u *User) Username() string {
	return u.username
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) ManagedBy() *kernel.ID {
	return u.managedBy
}

// Identity returns the actor this user authenticates as.
func (u *User) Identity() Identity {
	id, _ := NewIdentity(u.id, u.role)
	return id
}

func (u *User) setID(id kernel.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}
	u.username = username
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setRole(role Role, managedBy *kernel.ID) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if managedBy != nil {
		if role != Driver {
			return errs.NewValueIsInvalidErrorWithCause("managed_by",
				fmt.Errorf("only drivers can be managed, not %s", role))
		}
		if err := managedBy.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("managed_by", err)
		}
		owner := *managedBy
		u.managedBy = &owner
	}
	u.role = role
	return nil
}
