package commands

import (
	"context"
	"errors"
	"log/slog"

	"loadboard/internal/core/domain/services"
	"loadboard/internal/pkg/errs"
)

// MarkAsPaidCommandHandler flips the payment flag of a delivered load. No
// money moves, the settlement is only recorded and logged. The driver lookup
// only enriches the log line and never blocks the settlement.
type MarkAsPaidCommandHandler struct {
	uowFactory UoWFactory
	policy     services.AccessPolicy
	logger     *slog.Logger
}

func NewMarkAsPaidCommandHandler(uowFactory UoWFactory, logger *slog.Logger) MarkAsPaidCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return MarkAsPaidCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewAccessPolicy(),
		logger:     logger.With("component", "MarkAsPaidCommandHandler"),
	}
}

func (h MarkAsPaidCommandHandler) Handle(ctx context.Context, cmd MarkAsPaidCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.policy.Authorize(cmd.Identity(), services.ActionMarkPaid); err != nil {
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

	if err = l.MarkPaid(); err != nil {
		return err
	}

	if err = loadRepo.Update(ctx, l); err != nil {
		return err
	}

	attrs := []any{
		"reference", l.Reference().String(),
		"receiver_id", cmd.Identity().UserID().Int64(),
	}
	if price := l.Price(); price != nil {
		attrs = append(attrs, "amount", *price)
	}
	if driverID := l.DriverID(); driverID != nil {
		attrs = append(attrs, "driver_id", driverID.Int64())
		driver, err := uow.UserRepository().Get(ctx, *driverID)
		switch {
		case err == nil:
			attrs = append(attrs, "driver", driver.Username())
			if owner := driver.ManagedBy(); owner != nil {
				attrs = append(attrs, "owner_id", owner.Int64())
			}
		case errors.Is(err, errs.ErrObjectNotFound):
		default:
			h.logger.WarnContext(ctx, "driver lookup failed, settlement logged without driver details",
				"reference", l.Reference().String(), "error", err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "payment settlement recorded, no funds transferred", attrs...)
	return nil
}
