package commands

import (
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var (
	ErrMarkDeliveredCommandIsNotConstructed = errs.NewValueIsRequiredError(
		"MarkDeliveredCommand must be created via NewMarkDeliveredCommand constructor",
	)
	ErrMarkAsPaidCommandIsNotConstructed = errs.NewValueIsRequiredError(
		"MarkAsPaidCommand must be created via NewMarkAsPaidCommand constructor",
	)
)

// loadReferenceCommand carries an actor and the load they act on.
type loadReferenceCommand struct {
	identity  user.Identity
	reference kernel.Reference

	guard guard.ConstructorGuard
}

func newLoadReferenceCommand(identity user.Identity, reference kernel.Reference) (loadReferenceCommand, error) {
	if err := errors.Join(identity.Validate(), reference.Validate()); err != nil {
		return loadReferenceCommand{}, err
	}

	return loadReferenceCommand{
		identity:  identity,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c loadReferenceCommand) Identity() user.Identity {
	return c.identity
}

func (c loadReferenceCommand) Reference() kernel.Reference {
	return c.reference
}

// MarkDeliveredCommand is the assigned driver handing over an in-transit load.
type MarkDeliveredCommand struct {
	loadReferenceCommand
}

func NewMarkDeliveredCommand(identity user.Identity, reference kernel.Reference) (MarkDeliveredCommand, error) {
	base, err := newLoadReferenceCommand(identity, reference)
	if err != nil {
		return MarkDeliveredCommand{}, err
	}
	return MarkDeliveredCommand{loadReferenceCommand: base}, nil
}

func (c MarkDeliveredCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveredCommandIsNotConstructed)
}

// MarkAsPaidCommand is a receiver acknowledging payment for a delivered load.
type MarkAsPaidCommand struct {
	loadReferenceCommand
}

func NewMarkAsPaidCommand(identity user.Identity, reference kernel.Reference) (MarkAsPaidCommand, error) {
	base, err := newLoadReferenceCommand(identity, reference)
	if err != nil {
		return MarkAsPaidCommand{}, err
	}
	return MarkAsPaidCommand{loadReferenceCommand: base}, nil
}

func (c MarkAsPaidCommand) Validate() error {
	return c.guard.Validate(ErrMarkAsPaidCommandIsNotConstructed)
}
