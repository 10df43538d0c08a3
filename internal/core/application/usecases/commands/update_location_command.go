package commands

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errs.NewValueIsRequiredError(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand is the assigned driver reporting where the load is.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	identity  user.Identity
	reference kernel.Reference
	position  kernel.Position

	guard guard.ConstructorGuard
}

func NewUpdateLocationCommand(
	identity user.Identity,
	reference kernel.Reference,
	position kernel.Position,
) (UpdateLocationCommand, error) {
	if err := errors.Join(identity.Validate(), reference.Validate(), position.Validate()); err != nil {
		return UpdateLocationCommand{}, err
	}

	return UpdateLocationCommand{
		identity:  identity,
		reference: reference,
		position:  position,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

func (c UpdateLocationCommand) Identity() user.Identity {
	return c.identity
}

func (c UpdateLocationCommand) Reference() kernel.Reference {
	return c.reference
}

func (c UpdateLocationCommand) Position() kernel.Position {
	return c.position
}
