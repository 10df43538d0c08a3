package commands

import (
	"context"

	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/services"
)

type priceQuoter interface {
	Quote(ctx context.Context, origin, destination string) *float64
}

// PostLoadResult is what the sender gets back after posting.
type PostLoadResult struct {
	Reference      string
	EstimatedPrice *float64
}

// PostLoadCommandHandler creates pending loads. The price is quoted once,
// before the transaction starts, so a slow advisor never holds a connection.
type PostLoadCommandHandler struct {
	uowFactory LoadUoWFactory
	quoter     priceQuoter
	policy     services.AccessPolicy
}

func NewPostLoadCommandHandler(uowFactory LoadUoWFactory, quoter priceQuoter) PostLoadCommandHandler {
	return PostLoadCommandHandler{
		uowFactory: uowFactory,
		quoter:     quoter,
		policy:     services.NewAccessPolicy(),
	}
}

func (h PostLoadCommandHandler) Handle(ctx context.Context, cmd PostLoadCommand) (PostLoadResult, error) {
	if err := cmd.Validate(); err != nil {
		return PostLoadResult{}, err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionPostLoad); err != nil {
		return PostLoadResult{}, err
	}

	var price *float64
	if h.quoter != nil {
		price = h.quoter.Quote(ctx, cmd.Origin(), cmd.Destination())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PostLoadResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	loadRepo := uow.LoadRepository()
	id, err := loadRepo.NextID(ctx)
	if err != nil {
		return PostLoadResult{}, err
	}

	l, err := load.NewLoad(
		id,
		cmd.Identity().UserID(),
		cmd.Origin(),
		cmd.Destination(),
		cmd.LoadType(),
		cmd.Weight(),
		cmd.ExpectedDate(),
		price,
	)
	if err != nil {
		return PostLoadResult{}, err
	}

	if err = loadRepo.Add(ctx, l); err != nil {
		return PostLoadResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PostLoadResult{}, err
	}

	return PostLoadResult{
		Reference:      l.Reference().String(),
		EstimatedPrice: l.Price(),
	}, nil
}
