package cargo

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Domain errors for cargo operations.
var (
	// ErrCargoIsNotConstructed is returned when a Cargo was not created through
	// NewCargo or RestoreCargo.
	ErrCargoIsNotConstructed = errors.New("Cargo must be created via NewCargo constructor")

	// ErrNumberIsRequired is returned for a blank cargo number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("cargo number")
	// ErrOriginIsRequired is returned for a blank pickup point.
	ErrOriginIsRequired = errs.NewValueIsRequiredError("origin")
	// ErrDestinationIsRequired is returned for a blank drop-off point.
	ErrDestinationIsRequired = errs.NewValueIsRequiredError("destination")
)

// Details are the dispatch-time attributes of a load. They never change after
// ingestion.
type Details struct {
	// Number is the human-facing reference shown to drivers, e.g. "CG001".
	Number string
	// Type is free text such as "refrigerated"; may be empty.
	Type        string
	Weight      kernel.Weight
	Origin      string
	Destination string
	Urgency     Urgency
	Fare        kernel.Money
	PickupAt    time.Time
}

// Cargo is the CargoLoad aggregate root.
//
// Invariants:
//   - valid id and details (positive weight, non-negative fare, route present)
//   - driverID is set iff status is not Available
//   - status only moves forward through Status transitions
type Cargo struct {
	// id uniquely identifies the load
	id kernel.UUID
	// details are fixed at ingestion
	details Details
	// status is the lifecycle position
	status Status
	// driverID is the holder, nil while Available
	driverID *kernel.UUID
	// deliveredAt is stamped on completion
	deliveredAt *time.Time

	isConstructed bool
}

// NewCargo creates an Available load with no driver.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - details: dispatch attributes with a positive weight, a non-negative
//     fare and both route ends
//
// Returns:
//   - *Cargo: the load, Available with no driver
//   - error: every validation failure joined together
//
// Example:
//
//	c, err := cargo.NewCargo(kernel.NewUUID(), cargo.Details{
//	    Number:      "CG001",
//	    Weight:      2.5,
//	    Origin:      "Seoul Gangnam-gu",
//	    Destination: "Incheon Songdo",
//	    Urgency:     cargo.Normal,
//	    Fare:        180000,
//	})
func NewCargo(id kernel.UUID, details Details) (*Cargo, error) {
	c := &Cargo{
		status:        Available,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setDetails(details),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCargo rehydrates a load from persistence, re-checking the
// status/driver invariant.
func RestoreCargo(
	id kernel.UUID,
	details Details,
	status Status,
	driverID *kernel.UUID,
	deliveredAt *time.Time,
) (*Cargo, error) {
	c := &Cargo{isConstructed: true}

	if err := errors.Join(
		c.setID(id),
		c.setDetails(details),
		status.Validate(),
		status.ValidateCanHaveDriver(driverID != nil),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		d := *driverID
		c.driverID = &d
	}
	if deliveredAt != nil {
		at := *deliveredAt
		c.deliveredAt = &at
	}
	c.status = status

	return c, nil
}

// Validate ensures the Cargo was built through NewCargo or RestoreCargo.
//
// Returns:
//   - nil if the load is valid
//   - ErrCargoIsNotConstructed for a nil or zero-value Cargo
func (c *Cargo) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCargoIsNotConstructed
	}
	return nil
}

// IsEqual compares loads by identity.
//
// Returns:
//   - true if both loads have the same ID
//   - false if other is nil or the IDs differ
func (c *Cargo) IsEqual(other *Cargo) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the load's unique identifier.
func (c *Cargo) ID() kernel.UUID {
	return c.id
}

// Details returns the dispatch-time attributes.
func (c *Cargo) Details() Details {
	return c.details
}

// Number returns the reference shown to drivers.
func (c *Cargo) Number() string {
	return c.details.Number
}

// Weight returns the load weight.
func (c *Cargo) Weight() kernel.Weight {
	return c.details.Weight
}

// Fare returns what the driver earns on completion.
func (c *Cargo) Fare() kernel.Money {
	return c.details.Fare
}

// Status returns the lifecycle position.
func (c *Cargo) Status() Status {
	return c.status
}

// DeliveredAt returns the completion time, or nil before completion.
func (c *Cargo) DeliveredAt() *time.Time {
	return c.deliveredAt
}

// Driver returns the assigned driver, or nil while the load is Available.
func (c *Cargo) Driver() *kernel.UUID {
	return c.driverID
}

// IsAvailable reports whether the load can still be claimed.
func (c *Cargo) IsAvailable() bool {
	return c.status == Available
}

// IsAssignedTo reports whether driverID holds (or held) this load.
func (c *Cargo) IsAssignedTo(driverID kernel.UUID) bool {
	return c.driverID != nil && c.driverID.IsEqual(driverID)
}

// Assign records driverID as the holder and moves the load to Assigned.
// Persisting the result must go through the pool's conditional claim.
func (c *Cargo) Assign(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := c.status.Assign()
	if err != nil {
		return err
	}

	c.status = newStatus
	c.driverID = &driverID
	return nil
}

// Start moves an Assigned load held by driverID to InTransit.
func (c *Cargo) Start(driverID kernel.UUID) error {
	if err := c.checkHolder(driverID); err != nil {
		return err
	}

	newStatus, err := c.status.Start()
	if err != nil {
		return err
	}

	c.status = newStatus
	return nil
}

// Complete moves an InTransit load held by driverID to Completed and stamps
// the delivery time.
func (c *Cargo) Complete(driverID kernel.UUID, at time.Time) error {
	if err := c.checkHolder(driverID); err != nil {
		return err
	}

	newStatus, err := c.status.Complete()
	if err != nil {
		return err
	}

	c.status = newStatus
	delivered := at.UTC()
	c.deliveredAt = &delivered
	return nil
}

func (c *Cargo) checkHolder(driverID kernel.UUID) error {
	if !c.IsAssignedTo(driverID) {
		return errs.NewInvalidStateError("cargo driver", "not "+driverID.String())
	}
	return nil
}

func (c *Cargo) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Cargo) setDetails(d Details) error {
	d.Number = strings.TrimSpace(d.Number)
	d.Type = strings.TrimSpace(d.Type)
	d.Origin = strings.TrimSpace(d.Origin)
	d.Destination = strings.TrimSpace(d.Destination)

	var errList []error
	if d.Number == "" {
		errList = append(errList, ErrNumberIsRequired)
	}
	if d.Origin == "" {
		errList = append(errList, ErrOriginIsRequired)
	}
	if d.Destination == "" {
		errList = append(errList, ErrDestinationIsRequired)
	}
	errList = append(errList,
		d.Weight.Validate(),
		d.Fare.Validate(),
		d.Urgency.Validate(),
	)
	if err := errors.Join(errList...); err != nil {
		return err
	}

	d.PickupAt = d.PickupAt.UTC()
	c.details = d
	return nil
}
