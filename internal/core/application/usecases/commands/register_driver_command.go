package commands

import (
	"errors"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand completes onboarding: the authenticated identity
// becomes a driver with a profile and a vehicle capacity.
//
// Example:
//
//	cmd, err := NewRegisterDriverCommand(driverID, driver.Profile{
//	    Name:          "Kim",
//	    Phone:         "010-1234-5678",
//	    VehicleType:   "5t cargo truck",
//	    VehicleNumber: "12가3456",
//	}, 5)
type RegisterDriverCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	profile  driver.Profile
	capacity kernel.Weight

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(
	driverID kernel.UUID,
	profile driver.Profile,
	capacity kernel.Weight,
) (RegisterDriverCommand, error) {
	if err := errors.Join(driverID.Validate(), capacity.Validate()); err != nil {
		return RegisterDriverCommand{}, err
	}

	return RegisterDriverCommand{
		driverID: driverID,
		profile:  profile,
		capacity: capacity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() kernel.UUID   { return c.driverID }
func (c RegisterDriverCommand) Profile() driver.Profile { return c.profile }
func (c RegisterDriverCommand) Capacity() kernel.Weight { return c.capacity }
