package commands

import (
	"errors"
	"math"
	"strings"

	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"
	"loadboard/internal/pkg/guard"
)

var (
	ErrPostLoadCommandIsNotConstructed = errs.NewValueIsRequiredError(
		"PostLoadCommand must be created via NewPostLoadCommand constructor",
	)
	ErrWeightIsInvalid = errs.NewValueIsInvalidErrorWithCause("weight",
		errors.New("weight must be a positive number"))
)

// PostLoadCommand is a sender publishing a new load on the board.
//
// Example:
//
//	cmd, err := NewPostLoadCommand(sender, "Delhi", "Mumbai", "Textiles", 500, "2025-05-01")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Println(result.Reference) // UTI-1
type PostLoadCommand struct { //nolint:recvcheck //using for validation
	identity     user.Identity
	origin       string
	destination  string
	loadType     string
	weight       float64
	expectedDate string

	guard guard.ConstructorGuard
}

func NewPostLoadCommand(
	identity user.Identity,
	origin, destination, loadType string,
	weight float64,
	expectedDate string,
) (PostLoadCommand, error) {
	cmd := PostLoadCommand{
		identity: identity,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		identity.Validate(),
		cmd.setRequired("origin", &cmd.origin, origin),
		cmd.setRequired("destination", &cmd.destination, destination),
		cmd.setRequired("load_type", &cmd.loadType, loadType),
		cmd.setWeight(weight),
		cmd.setRequired("expected_date", &cmd.expectedDate, expectedDate),
	); err != nil {
		return PostLoadCommand{}, err
	}

	return cmd, nil
}

func (c PostLoadCommand) Validate() error {
	return c.guard.Validate(ErrPostLoadCommandIsNotConstructed)
}

func (c PostLoadCommand) Identity() user.Identity {
	return c.identity
}

func (c PostLoadCommand) Origin() string {
	return c.origin
}

func (c PostLoadCommand) Destination() string {
	return c.destination
}

func (c PostLoadCommand) LoadType() string {
	return c.loadType
}

func (c PostLoadCommand) Weight() float64 {
	return c.weight
}

func (c PostLoadCommand) ExpectedDate() string {
	return c.expectedDate
}

func (c *PostLoadCommand) setRequired(param string, field *string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(param)
	}

	*field = value
	return nil
}

func (c *PostLoadCommand) setWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return ErrWeightIsInvalid
	}

	c.weight = weight
	return nil
}
