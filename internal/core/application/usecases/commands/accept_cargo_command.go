package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAcceptCargoCommandIsNotConstructed = errors.New(
	"AcceptCargoCommand must be created via NewAcceptCargoCommand constructor",
)

// AcceptCargoCommand asks to make cargoID the driver's active delivery.
//
// Example:
//
//	cmd, err := NewAcceptCargoCommand(driverID, cargoID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // someone else got it first; refresh the visible loads
//	}
type AcceptCargoCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	cargoID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptCargoCommand(driverID, cargoID kernel.UUID) (AcceptCargoCommand, error) {
	cmd := AcceptCargoCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setCargoID(cargoID),
	); err != nil {
		return AcceptCargoCommand{}, err
	}

	return cmd, nil
}

func (c AcceptCargoCommand) Validate() error {
	return c.guard.Validate(ErrAcceptCargoCommandIsNotConstructed)
}

func (c AcceptCargoCommand) DriverID() kernel.UUID { return c.driverID }
func (c AcceptCargoCommand) CargoID() kernel.UUID  { return c.cargoID }

func (c *AcceptCargoCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}

func (c *AcceptCargoCommand) setCargoID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.cargoID = id
	return nil
}
