package commands

import (
	"context"

	"loadboard/internal/core/domain/model/loadrequest"
	"loadboard/internal/core/domain/services"
)

// ConfirmRequestCommandHandler accepts one bid, assigns its driver and
// rejects every other pending bid on the load in the same transaction.
type ConfirmRequestCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
	arbiter    services.RequestArbiter
}

func NewConfirmRequestCommandHandler(uowFactory UoWFactory) ConfirmRequestCommandHandler {
	return ConfirmRequestCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
		arbiter:    services.NewRequestArbiter(),
	}
}

// Handle runs the arbitration. The request is read once to find its load,
// then read again from the pending set after the load row is locked: a
// concurrent confirmation that won the lock leaves it out of that set.
func (h ConfirmRequestCommandHandler) Handle(ctx context.Context, cmd ConfirmRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionConfirmRequest); err != nil {
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
	requestRepo := uow.LoadRequestRepository()

	requested, err := requestRepo.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}
	if !requested.IsPending() {
		return loadrequest.ErrRequestAlreadyProcessed
	}

	l, err := loadRepo.GetForUpdate(ctx, requested.LoadID())
	if err != nil {
		return err
	}

	pending, err := requestRepo.ListPendingByLoad(ctx, l.ID())
	if err != nil {
		return err
	}

	var winner *loadrequest.LoadRequest
	for _, r := range pending {
		if r.ID() == requested.ID() {
			winner = r
			break
		}
	}
	if winner == nil {
		return loadrequest.ErrRequestAlreadyProcessed
	}

	rejected, err := h.arbiter.Arbitrate(cmd.Identity(), l, winner, pending)
	if err != nil {
		return err
	}

	if err = requestRepo.Update(ctx, winner); err != nil {
		return err
	}

	for _, r := range rejected {
		if err = requestRepo.Update(ctx, r); err != nil {
			return err
		}
	}

	if err = loadRepo.Update(ctx, l); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
