package commands

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var ErrRequestLoadCommandIsNotConstructed = errs.NewValueIsRequiredError(
	"RequestLoadCommand must be created via NewRequestLoadCommand constructor",
)

// RequestLoadCommand is a driver or truck owner bidding on a pending load.
type RequestLoadCommand struct { //nolint:recvcheck //using for validation
	identity user.Identity
	loadID   kernel.ID

	guard guard.ConstructorGuard
}

func NewRequestLoadCommand(identity user.Identity, loadID kernel.ID) (RequestLoadCommand, error) {
	if err := errors.Join(identity.Validate(), loadID.Validate()); err != nil {
		return RequestLoadCommand{}, err
	}

	return RequestLoadCommand{
		identity: identity,
		loadID:   loadID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RequestLoadCommand) Validate() error {
	return c.guard.Validate(ErrRequestLoadCommandIsNotConstructed)
}

func (c RequestLoadCommand) Identity() user.Identity {
	return c.identity
}

func (c RequestLoadCommand) LoadID() kernel.ID {
	return c.loadID
}
