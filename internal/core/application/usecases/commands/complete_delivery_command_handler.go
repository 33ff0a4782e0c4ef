package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler completes the load and credits the driver in
// one transaction. The totals increment is keyed by the load id in storage, so
// no sequence of retries can count a delivery twice.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	now        func() time.Time
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, now func() time.Time) CompleteDeliveryCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	// A key that is not the active delivery can only be a retry of an earlier
	// completion, even if the driver has accepted another load since.
	if key := cmd.DeliveryKey(); key != nil {
		if active := d.ActiveDelivery(); active == nil || !active.IsEqual(*key) {
			return h.alreadyCompleted(ctx, cargoRepo, d, *key)
		}
	}

	cargoID, err := d.RequireActiveDelivery()
	if err != nil {
		return err
	}

	c, err := cargoRepo.Get(ctx, cargoID)
	if err != nil {
		return err
	}

	if err = c.Complete(d.ID(), h.now()); err != nil {
		return err
	}

	updated, err := cargoRepo.UpdateIfStatus(ctx, c, cargo.InTransit)
	if err != nil {
		return err
	}
	if !updated {
		return errs.NewInvalidStateError("cargo status", "changed concurrently")
	}

	applied, err := driverRepo.RecordDelivery(ctx, d.ID(), c.ID(), c.Fare())
	if err != nil {
		return err
	}
	if !applied {
		return errs.NewInvalidStateError("delivery ledger", "already holds cargo "+c.ID().String())
	}

	if err = d.FinishDelivery(c.ID(), c.Fare()); err != nil {
		return err
	}

	if err = driverRepo.Update(ctx, d); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// alreadyCompleted accepts a retry whose load was completed by this driver.
// Any other key is an InvalidStateError.
func (h CompleteDeliveryCommandHandler) alreadyCompleted(
	ctx context.Context,
	cargoRepo ports.CargoRepository,
	d *driver.Driver,
	key kernel.UUID,
) error {
	c, err := cargoRepo.Get(ctx, key)
	if err != nil {
		return err
	}
	if c.Status() != cargo.Completed || !c.IsAssignedTo(d.ID()) {
		state := "none"
		if active := d.ActiveDelivery(); active != nil {
			state = active.String()
		}
		return errs.NewInvalidStateError("driver active delivery", state)
	}
	return nil
}
