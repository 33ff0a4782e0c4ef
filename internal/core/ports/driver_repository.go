package ports

import (
	"context"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
)

// DriverRepository persists driver state. Totals are never written through
// Update; they only change via RecordDelivery.
type DriverRepository interface {
	Add(ctx context.Context, d *driver.Driver) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetForUpdate reads the driver and locks the row until the surrounding
	// transaction ends, serializing a driver's own commands.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// Update writes status and active delivery.
	Update(ctx context.Context, d *driver.Driver) error

	// RecordDelivery adds one delivery and fare to the driver's totals, once
	// per cargoID. It returns false when the delivery was already recorded,
	// in which case the totals are left untouched.
	RecordDelivery(ctx context.Context, driverID, cargoID kernel.UUID, fare kernel.Money) (bool, error)
}
