package commands

import (
	"context"

	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/services"
)

// UpdateLocationCommandHandler stores the latest driver position. The first
// accepted report moves an assigned load to intransit.
type UpdateLocationCommandHandler struct {
	uowFactory LoadUoWFactory
	policy     services.AccessPolicy
}

func NewUpdateLocationCommandHandler(uowFactory LoadUoWFactory) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
	}
}

// Handle returns the status of the load after the update.
func (h UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) (load.Status, error) {
	if err := cmd.Validate(); err != nil {
		return load.StatusUnknown, err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionUpdateLocation); err != nil {
		return load.StatusUnknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return load.StatusUnknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	l, err := loadRepo.GetForUpdate(ctx, cmd.Reference().LoadID())
	if err != nil {
		return load.StatusUnknown, err
	}

	if err = l.UpdateLocation(cmd.Identity().UserID(), cmd.Position()); err != nil {
		return load.StatusUnknown, err
	}

	if err = loadRepo.Update(ctx, l); err != nil {
		return load.StatusUnknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return load.StatusUnknown, err
	}

	return l.Status(), nil
}
