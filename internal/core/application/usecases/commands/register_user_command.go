package commands

import (
	"errors"
	"strings"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errs.NewValueIsRequiredError(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand creates an account. ManagedBy links a driver to the
// truck owner running their truck.
type RegisterUserCommand struct { //nolint:recvcheck //using for validation
	username  string
	password  string
	role      user.Role
	managedBy *kernel.ID

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(
	username, password string,
	role user.Role,
	managedBy *kernel.ID,
) (RegisterUserCommand, error) {
	cmd := RegisterUserCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setUsername(username),
		cmd.setPassword(password),
		cmd.setRole(role, managedBy),
	); err != nil {
		return RegisterUserCommand{}, err
	}

	return cmd, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) Username() string {
	return c.username
}

func (c RegisterUserCommand) Password() string {
	return c.password
}

func (c RegisterUserCommand) Role() user.Role {
	return c.role
}

func (c RegisterUserCommand) ManagedBy() *kernel.ID {
	return c.managedBy
}

func (c *RegisterUserCommand) setUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}

	c.username = username
	return nil
}

func (c *RegisterUserCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}

	c.password = password
	return nil
}

func (c *RegisterUserCommand) setRole(role user.Role, managedBy *kernel.ID) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if managedBy != nil && role != user.Driver {
		return ErrInvalidManager
	}

	c.role = role
	c.managedBy = managedBy
	return nil
}
