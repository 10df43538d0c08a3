package commands

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var ErrConfirmRequestCommandIsNotConstructed = errs.NewValueIsRequiredError(
	"ConfirmRequestCommand must be created via NewConfirmRequestCommand constructor",
)

// ConfirmRequestCommand is a sender accepting one bid on their load.
type ConfirmRequestCommand struct { //nolint:recvcheck //using for validation
	identity  user.Identity
	requestID kernel.ID

	guard guard.ConstructorGuard
}

func NewConfirmRequestCommand(identity user.Identity, requestID kernel.ID) (ConfirmRequestCommand, error) {
	if err := errors.Join(identity.Validate(), requestID.Validate()); err != nil {
		return ConfirmRequestCommand{}, err
	}

	return ConfirmRequestCommand{
		identity:  identity,
		requestID: requestID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmRequestCommand) Validate() error {
	return c.guard.Validate(ErrConfirmRequestCommandIsNotConstructed)
}

func (c ConfirmRequestCommand) Identity() user.Identity {
	return c.identity
}

func (c ConfirmRequestCommand) RequestID() kernel.ID {
	return c.requestID
}
