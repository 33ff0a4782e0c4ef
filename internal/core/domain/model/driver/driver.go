package driver

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Domain errors for driver operations.
var (
	// ErrDriverIsNotConstructed is returned when a Driver was not created through
	// NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

	// ErrNameIsRequired is returned for a blank profile name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned for a blank contact phone.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrVehicleTypeIsRequired is returned for a blank vehicle type.
	ErrVehicleTypeIsRequired = errs.NewValueIsRequiredError("vehicle type")
	// ErrVehicleNumberIsRequired is returned for a blank plate number.
	ErrVehicleNumberIsRequired = errs.NewValueIsRequiredError("vehicle number")
)

// Profile is what the driver enters during onboarding.
type Profile struct {
	Name          string
	Phone         string
	VehicleType   string
	VehicleNumber string
}

// Totals are the lifetime delivery statistics.
type Totals struct {
	Deliveries int64
	Earnings   kernel.Money
}

// Driver is the aggregate root for a driver's own state. Only the driver's
// session mutates it.
//
// Business rules:
//   - Driver must have a valid UUID, a complete profile and a positive capacity
//   - A driver holds at most one delivery, and holds one exactly while Busy
//   - Busy is entered only by taking a load and left only by finishing it
//   - Totals only grow, by one delivery and its fare per completion
//
// Example usage:
//
//	d, err := driver.NewDriver(driverID, driver.Profile{
//	    Name:          "Kim",
//	    Phone:         "010-1234-5678",
//	    VehicleType:   "5t truck",
//	    VehicleNumber: "12가3456",
//	}, 5)
//	if err != nil {
//	    return err
//	}
//	if err = d.TakeCargo(cargoID); err != nil {
//	    return err
//	}
type Driver struct {
	// id is the driver's identity, the subject of their token
	id kernel.UUID
	// profile holds the onboarding details
	profile Profile
	// capacity is what the vehicle can carry
	capacity kernel.Weight
	// status is the current availability
	status Status
	// activeDelivery is the load in progress, nil when none
	activeDelivery *kernel.UUID
	// totals are the lifetime statistics
	totals Totals

	isConstructed bool
}

// NewDriver onboards an Available driver with zero totals.
//
// Parameters:
//   - id: the driver's identity (must be a valid UUID)
//   - profile: onboarding details, every field required
//   - capacity: vehicle capacity in tons (must be positive)
//
// Returns:
//   - *Driver: the new driver, Available with no delivery
//   - error: every validation failure joined together
func NewDriver(id kernel.UUID, profile Profile, capacity kernel.Weight) (*Driver, error) {
	d := &Driver{
		status:        Available,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setProfile(profile),
		capacity.Validate(),
	); err != nil {
		return nil, err
	}
	d.capacity = capacity

	return d, nil
}

// RestoreDriver rehydrates a driver from persistence. Unlike NewDriver it
// takes the stored status, delivery and totals, and fails when the status
// and the active delivery disagree.
func RestoreDriver(
	id kernel.UUID,
	profile Profile,
	capacity kernel.Weight,
	status Status,
	activeDelivery *kernel.UUID,
	totals Totals,
) (*Driver, error) {
	d := &Driver{isConstructed: true}

	var errTotals error
	if totals.Deliveries < 0 {
		errTotals = errs.NewValueIsInvalidError("total deliveries")
	}

	if err := errors.Join(
		d.setID(id),
		d.setProfile(profile),
		capacity.Validate(),
		status.Validate(),
		status.ValidateCanHaveDelivery(activeDelivery != nil),
		totals.Earnings.Validate(),
		errTotals,
	); err != nil {
		return nil, err
	}

	if activeDelivery != nil {
		if err := activeDelivery.Validate(); err != nil {
			return nil, err
		}
		a := *activeDelivery
		d.activeDelivery = &a
	}
	d.capacity = capacity
	d.status = status
	d.totals = totals

	return d, nil
}

// Validate ensures the Driver was built through NewDriver or RestoreDriver.
//
// Returns:
//   - nil if the driver is valid
//   - ErrDriverIsNotConstructed for a nil or zero-value Driver
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Profile returns the onboarding details.
func (d *Driver) Profile() Profile {
	return d.profile
}

// Capacity returns how much the vehicle can carry.
func (d *Driver) Capacity() kernel.Weight {
	return d.capacity
}

// Status returns the current availability.
func (d *Driver) Status() Status {
	return d.status
}

// Totals returns the lifetime delivery count and earnings.
func (d *Driver) Totals() Totals {
	return d.totals
}

// ActiveDelivery returns the load in progress, or nil.
func (d *Driver) ActiveDelivery() *kernel.UUID {
	return d.activeDelivery
}

// CanTakeCargo fails with an InvalidStateError unless the driver is Available
// with no delivery in progress.
func (d *Driver) CanTakeCargo() error {
	if d.activeDelivery != nil {
		return errs.NewInvalidStateError("driver active delivery", d.activeDelivery.String())
	}
	if d.status != Available {
		return errs.NewInvalidStateError("driver status", d.status)
	}
	return nil
}

// TakeCargo makes cargoID the active delivery and marks the driver Busy.
func (d *Driver) TakeCargo(cargoID kernel.UUID) error {
	if err := cargoID.Validate(); err != nil {
		return err
	}
	if err := d.CanTakeCargo(); err != nil {
		return err
	}

	d.activeDelivery = &cargoID
	d.status = Busy
	return nil
}

// RequireActiveDelivery returns the active delivery or an InvalidStateError.
func (d *Driver) RequireActiveDelivery() (kernel.UUID, error) {
	if d.activeDelivery == nil || d.status != Busy {
		return kernel.UUID{}, errs.NewInvalidStateError("driver active delivery", "none")
	}
	return *d.activeDelivery, nil
}

// FinishDelivery closes the active delivery cargoID, adds one delivery and the
// fare to the totals, and makes the driver Available again.
func (d *Driver) FinishDelivery(cargoID kernel.UUID, fare kernel.Money) error {
	active, err := d.RequireActiveDelivery()
	if err != nil {
		return err
	}
	if !active.IsEqual(cargoID) {
		return errs.NewInvalidStateError("driver active delivery", active.String())
	}

	earnings, err := d.totals.Earnings.Add(fare)
	if err != nil {
		return err
	}

	d.totals = Totals{Deliveries: d.totals.Deliveries + 1, Earnings: earnings}
	d.activeDelivery = nil
	d.status = Available
	return nil
}

// ChangeStatus applies an explicit availability request. Busy is never a
// valid target and no change is allowed mid-delivery.
func (d *Driver) ChangeStatus(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == Busy {
		return errs.NewInvalidStateErrorWithCause("driver status", target,
			errors.New("busy is only entered by accepting a load"))
	}
	if d.activeDelivery != nil {
		return errs.NewInvalidStateError("driver active delivery", d.activeDelivery.String())
	}

	d.status = target
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setProfile(p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.VehicleType = strings.TrimSpace(p.VehicleType)
	p.VehicleNumber = strings.TrimSpace(p.VehicleNumber)

	var errList []error
	if p.Name == "" {
		errList = append(errList, ErrNameIsRequired)
	}
	if p.Phone == "" {
		errList = append(errList, ErrPhoneIsRequired)
	}
	if p.VehicleType == "" {
		errList = append(errList, ErrVehicleTypeIsRequired)
	}
	if p.VehicleNumber == "" {
		errList = append(errList, ErrVehicleNumberIsRequired)
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	d.profile = p
	return nil
}
