// Package driverrepo persists drivers and the delivery ledger in Postgres
// through GORM.
package driverrepo

import (
	"time"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the row shape of the drivers table.
type DriverDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name            string     `gorm:"not null"`
	Phone           string     `gorm:"not null"`
	VehicleType     string     `gorm:"not null"`
	VehicleNumber   string     `gorm:"not null"`
	CapacityTons    float64    `gorm:"not null"`
	Status          string     `gorm:"not null"`
	ActiveCargoID   *uuid.UUID `gorm:"type:uuid"`
	TotalDeliveries int64      `gorm:"not null;default:0"`
	TotalEarnings   int64      `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// LedgerEntryDTO records that a load's fare was credited to its driver.
type LedgerEntryDTO struct {
	CargoID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID   uuid.UUID `gorm:"type:uuid;not null"`
	Fare       int64     `gorm:"not null"`
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (LedgerEntryDTO) TableName() string {
	return "delivery_ledger"
}

func fromDomain(d *driver.Driver) DriverDTO {
	var activeCargoID *uuid.UUID
	if id := d.ActiveDelivery(); id != nil {
		raw := id.Bytes()
		activeCargoID = &raw
	}

	p := d.Profile()
	return DriverDTO{
		ID:              d.ID().Bytes(),
		Name:            p.Name,
		Phone:           p.Phone,
		VehicleType:     p.VehicleType,
		VehicleNumber:   p.VehicleNumber,
		CapacityTons:    d.Capacity().Tons(),
		Status:          d.Status().String(),
		ActiveCargoID:   activeCargoID,
		TotalDeliveries: d.Totals().Deliveries,
		TotalEarnings:   d.Totals().Earnings.Amount(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var activeCargoID *kernel.UUID
	if dto.ActiveCargoID != nil {
		cID, cargoErr := kernel.UUIDFromBytes((*dto.ActiveCargoID)[:])
		if cargoErr != nil {
			return nil, cargoErr
		}
		activeCargoID = &cID
	}

	status, err := driver.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		driver.Profile{
			Name:          dto.Name,
			Phone:         dto.Phone,
			VehicleType:   dto.VehicleType,
			VehicleNumber: dto.VehicleNumber,
		},
		kernel.Weight(dto.CapacityTons),
		status,
		activeCargoID,
		driver.Totals{
			Deliveries: dto.TotalDeliveries,
			Earnings:   kernel.Money(dto.TotalEarnings),
		},
	)
}
