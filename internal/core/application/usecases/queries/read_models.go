// Package queries contains the read side: snapshots a driver session pulls on
// every refresh. Handlers read straight from the database with raw SQL and
// return read models, never aggregates.
package queries

import (
	"database/sql"
	"time"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CargoReadModel is a load as shown to a driver.
type CargoReadModel struct {
	ID          kernel.UUID
	Number      string
	Type        string
	Weight      kernel.Weight
	Origin      string
	Destination string
	Urgency     cargo.Urgency
	Fare        kernel.Money
	Status      cargo.Status
	DriverID    *kernel.UUID
	PickupAt    time.Time
	DeliveredAt *time.Time
}

// DriverReadModel is the driver's own profile card.
type DriverReadModel struct {
	ID             kernel.UUID
	Profile        driver.Profile
	Capacity       kernel.Weight
	Status         driver.Status
	ActiveDelivery *kernel.UUID
	Totals         driver.Totals
}

const cargoColumns = `
	id,
	number,
	cargo_type,
	weight_tons,
	origin,
	destination,
	urgency,
	fare,
	status,
	driver_id,
	pickup_at,
	delivered_at`

const driverColumns = `
	id,
	name,
	phone,
	vehicle_type,
	vehicle_number,
	capacity_tons,
	status,
	active_cargo_id,
	total_deliveries,
	total_earnings`

type scanner interface {
	Scan(dest ...any) error
}

func scanCargo(row scanner) (CargoReadModel, error) {
	var (
		m               CargoReadModel
		id              uuid.UUID
		driverID        uuid.NullUUID
		weight          float64
		fare            int64
		urgency, status string
		pickupAt        time.Time
		deliveredAt     sql.NullTime
	)

	if err := row.Scan(
		&id,
		&m.Number,
		&m.Type,
		&weight,
		&m.Origin,
		&m.Destination,
		&urgency,
		&fare,
		&status,
		&driverID,
		&pickupAt,
		&deliveredAt,
	); err != nil {
		return CargoReadModel{}, err
	}

	cargoID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return CargoReadModel{}, err
	}
	m.ID = cargoID

	if driverID.Valid {
		dID, idErr := kernel.UUIDFromBytes(driverID.UUID[:])
		if idErr != nil {
			return CargoReadModel{}, idErr
		}
		m.DriverID = &dID
	}

	if m.Urgency, err = cargo.ParseUrgency(urgency); err != nil {
		return CargoReadModel{}, err
	}
	if m.Status, err = cargo.ParseStatus(status); err != nil {
		return CargoReadModel{}, err
	}

	m.Weight = kernel.Weight(weight)
	m.Fare = kernel.Money(fare)
	m.PickupAt = pickupAt.UTC()
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		m.DeliveredAt = &at
	}
	return m, nil
}

// toAggregate rehydrates the load so domain services can be applied to it.
func (m CargoReadModel) toAggregate() (*cargo.Cargo, error) {
	return cargo.RestoreCargo(m.ID, cargo.Details{
		Number:      m.Number,
		Type:        m.Type,
		Weight:      m.Weight,
		Origin:      m.Origin,
		Destination: m.Destination,
		Urgency:     m.Urgency,
		Fare:        m.Fare,
		PickupAt:    m.PickupAt,
	}, m.Status, m.DriverID, m.DeliveredAt)
}

func scanDriver(row scanner) (DriverReadModel, error) {
	var (
		m             DriverReadModel
		id            uuid.UUID
		activeCargoID uuid.NullUUID
		capacity      float64
		status        string
		deliveries    int64
		earnings      int64
	)

	if err := row.Scan(
		&id,
		&m.Profile.Name,
		&m.Profile.Phone,
		&m.Profile.VehicleType,
		&m.Profile.VehicleNumber,
		&capacity,
		&status,
		&activeCargoID,
		&deliveries,
		&earnings,
	); err != nil {
		return DriverReadModel{}, err
	}

	driverID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return DriverReadModel{}, err
	}
	m.ID = driverID

	if activeCargoID.Valid {
		cID, idErr := kernel.UUIDFromBytes(activeCargoID.UUID[:])
		if idErr != nil {
			return DriverReadModel{}, idErr
		}
		m.ActiveDelivery = &cID
	}

	if m.Status, err = driver.ParseStatus(status); err != nil {
		return DriverReadModel{}, err
	}

	m.Capacity = kernel.Weight(capacity)
	m.Totals = driver.Totals{Deliveries: deliveries, Earnings: kernel.Money(earnings)}
	return m, nil
}

func (m DriverReadModel) toAggregate() (*driver.Driver, error) {
	return driver.RestoreDriver(m.ID, m.Profile, m.Capacity, m.Status, m.ActiveDelivery, m.Totals)
}
