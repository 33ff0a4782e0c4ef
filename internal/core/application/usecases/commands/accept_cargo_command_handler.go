package commands

import (
	"context"

	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
)

// AcceptCargoCommandHandler claims a load for a driver.
//
// Two drivers racing for the same load are resolved by the pool's conditional
// claim: exactly one commits, the other gets a ConflictError. Two requests
// from the same driver are serialized by the driver row lock, so a driver
// never ends up holding two loads.
//
// Failure order: NotFound for unknown ids, InvalidState when the driver is not
// free, Conflict when the load is taken, CapacityViolation when the load does
// not fit the vehicle.
type AcceptCargoCommandHandler struct {
	uowFactory UoWFactory
	policy     services.CapacityPolicy
}

func NewAcceptCargoCommandHandler(uowFactory UoWFactory, policy services.CapacityPolicy) AcceptCargoCommandHandler {
	return AcceptCargoCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

func (h AcceptCargoCommandHandler) Handle(ctx context.Context, cmd AcceptCargoCommand) error {
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

	c, err := cargoRepo.Get(ctx, cmd.CargoID())
	if err != nil {
		return err
	}

	if err = d.CanTakeCargo(); err != nil {
		return err
	}

	if !c.IsAvailable() {
		return errs.NewConflictErrorWithCause("cargo", c.Number(), errs.NewInvalidStateError("cargo status", c.Status()))
	}

	if err = h.policy.Check(c.Weight(), d.Capacity()); err != nil {
		return err
	}

	if err = c.Assign(d.ID()); err != nil {
		return err
	}

	claimed, err := cargoRepo.Claim(ctx, c.ID(), d.ID())
	if err != nil {
		return err
	}
	if !claimed {
		return errs.NewConflictError("cargo", c.Number())
	}

	if err = d.TakeCargo(c.ID()); err != nil {
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
