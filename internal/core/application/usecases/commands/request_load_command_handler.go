package commands

import (
	"context"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/services"
)

// RequestLoadCommandHandler places a bid on a pending load and moves the load
// to requested. The load row stays locked until commit, so of several drivers
// racing for one load exactly one succeeds and the others find it requested.
//
// Example:
//
//	requestID, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, load.ErrLoadNotAvailable):
//	    // Another driver was faster
//	case errors.Is(err, loadrequest.ErrAlreadyRequested):
//	    // The driver already bid on this load
//	}
type RequestLoadCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
}

func NewRequestLoadCommandHandler(uowFactory UoWFactory) RequestLoadCommandHandler {
	return RequestLoadCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
	}
}

// Handle returns the id of the new pending request.
func (h RequestLoadCommandHandler) Handle(ctx context.Context, cmd RequestLoadCommand) (kernel.ID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionRequestLoad); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	requestRepo := uow.LoadRequestRepository()
	driverID := cmd.Identity().UserID()

	l, err := loadRepo.GetForUpdate(ctx, cmd.LoadID())
	if err != nil {
		return 0, err
	}

	if err = l.Request(driverID); err != nil {
		return 0, err
	}

	pending, err := requestRepo.HasPending(ctx, l.ID(), driverID)
	if err != nil {
		return 0, err
	}
	if pending {
		return 0, loadrequest.ErrAlreadyRequested
	}

	requestID, err := requestRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}

	request, err := loadrequest.NewLoadRequest(requestID, l.ID(), driverID)
	if err != nil {
		return 0, err
	}

	if err = requestRepo.Add(ctx, request); err != nil {
		return 0, err
	}

	if err = loadRepo.Update(ctx, l); err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return requestID, nil
}
