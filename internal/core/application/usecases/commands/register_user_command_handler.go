package commands

import (
	"context"
	"errors"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/core/ports"
	"loadboard/internal/pkg/errs"
)

// ErrInvalidManager is returned when managed_by is set for a non-driver or
// does not point at a truck owner.
var ErrInvalidManager = errs.NewValueIsInvalidErrorWithCause("managed_by",
	errors.New("managed_by must reference a truck owner and is only allowed for drivers"))

type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

func NewRegisterUserCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Handle stores the account with a hashed password and returns its id.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()

	if managedBy := cmd.ManagedBy(); managedBy != nil {
		owner, err := userRepo.Get(ctx, *managedBy)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return 0, ErrInvalidManager
		}
		if err != nil {
			return 0, err
		}
		if owner.Role() != user.TruckOwner {
			return 0, ErrInvalidManager
		}
	}

	id, err := userRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}

	u, err := user.NewUser(id, cmd.Username(), hash, cmd.Role(), cmd.ManagedBy())
	if err != nil {
		return 0, err
	}

	if err = userRepo.Add(ctx, u); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return id, nil
}
