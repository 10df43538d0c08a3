package commands

import (
	"context"

	"loadboard/internal/core/domain/services"
)

// MarkDeliveredCommandHandler completes an in-transit load.
type MarkDeliveredCommandHandler struct {
	uowFactory LoadUoWFactory
	policy     services.AccessPolicy
}

func NewMarkDeliveredCommandHandler(uowFactory LoadUoWFactory) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
	}
}

func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionMarkDelivered); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	l, err := loadRepo.GetForUpdate(ctx, cmd.Reference().LoadID())
	if err != nil {
		return err
	}

	if err = l.MarkDelivered(cmd.Identity().UserID()); err != nil {
		return err
	}

	if err = loadRepo.Update(ctx, l); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
