package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand finishes the driver's active delivery.
//
// The optional delivery key is the id of the load the caller believes it is
// completing. Carrying it makes the command safe to retry: once that load is
// completed by this driver, repeating the command succeeds without touching
// the totals again.
//
// Example:
//
//	cmd, _ := NewCompleteDeliveryCommand(driverID, &cargoID)
//	for attempt := 0; attempt < 3; attempt++ {
//	    if err = handler.Handle(ctx, cmd); !errors.Is(err, errs.ErrTransient) {
//	        break
//	    }
//	}
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	driverID    kernel.UUID
	deliveryKey *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(driverID kernel.UUID, deliveryKey *kernel.UUID) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setDeliveryKey(deliveryKey),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) DriverID() kernel.UUID { return c.driverID }

// DeliveryKey returns the load id the caller expects to complete, or nil.
func (c CompleteDeliveryCommand) DeliveryKey() *kernel.UUID { return c.deliveryKey }

func (c *CompleteDeliveryCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.driverID = id
	return nil
}

func (c *CompleteDeliveryCommand) setDeliveryKey(key *kernel.UUID) error {
	if key == nil {
		return nil
	}
	if err := key.Validate(); err != nil {
		return err
	}
	k := *key
	c.deliveryKey = &k
	return nil
}
