// Package cargorepo persists the cargo pool in Postgres through GORM.
package cargorepo

import (
	"time"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CargoDTO is the row shape of the cargos table. The schema itself is owned
// by the goose migrations.
type CargoDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number      string     `gorm:"not null"`
	CargoType   string     `gorm:"not null;default:''"`
	WeightTons  float64    `gorm:"not null"`
	Origin      string     `gorm:"not null"`
	Destination string     `gorm:"not null"`
	Urgency     string     `gorm:"not null"`
	Fare        int64      `gorm:"not null"`
	Status      string     `gorm:"not null;index"`
	DriverID    *uuid.UUID `gorm:"type:uuid;index"`
	PickupAt    time.Time  `gorm:"not null"`
	DeliveredAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CargoDTO) TableName() string {
	return "cargos"
}

func fromDomain(c *cargo.Cargo) CargoDTO {
	var driverID *uuid.UUID
	if id := c.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	d := c.Details()
	return CargoDTO{
		ID:          c.ID().Bytes(),
		Number:      d.Number,
		CargoType:   d.Type,
		WeightTons:  d.Weight.Tons(),
		Origin:      d.Origin,
		Destination: d.Destination,
		Urgency:     d.Urgency.String(),
		Fare:        d.Fare.Amount(),
		Status:      c.Status().String(),
		DriverID:    driverID,
		PickupAt:    d.PickupAt,
		DeliveredAt: c.DeliveredAt(),
	}
}

func toDomain(dto CargoDTO) (*cargo.Cargo, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := cargo.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	urgency, err := cargo.ParseUrgency(dto.Urgency)
	if err != nil {
		return nil, err
	}

	return cargo.RestoreCargo(id, cargo.Details{
		Number:      dto.Number,
		Type:        dto.CargoType,
		Weight:      kernel.Weight(dto.WeightTons),
		Origin:      dto.Origin,
		Destination: dto.Destination,
		Urgency:     urgency,
		Fare:        kernel.Money(dto.Fare),
		PickupAt:    dto.PickupAt,
	}, status, driverID, dto.DeliveredAt)
}

func toDomainList(dtos []CargoDTO) ([]*cargo.Cargo, error) {
	cargos := make([]*cargo.Cargo, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		cargos = append(cargos, c)
	}
	return cargos, nil
}
