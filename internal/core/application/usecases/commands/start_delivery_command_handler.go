package commands

import (
	"context"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/pkg/errs"
)

// StartDeliveryCommandHandler moves the driver's Assigned load to InTransit.
// It fails with an InvalidStateError, mutating nothing, when the driver has no
// active delivery or the load is not Assigned.
type StartDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewStartDeliveryCommandHandler(uowFactory UoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	cargoRepo := uow.CargoRepository()

	d, err := driverRepo.GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	cargoID, err := d.RequireActiveDelivery()
	if err != nil {
		return err
	}

	c, err := cargoRepo.Get(ctx, cargoID)
	if err != nil {
		return err
	}

	if err = c.Start(d.ID()); err != nil {
		return err
	}

	updated, err := cargoRepo.UpdateIfStatus(ctx, c, cargo.Assigned)
	if err != nil {
		return err
	}
	if !updated {
		return errs.NewInvalidStateError("cargo status", "changed concurrently")
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
