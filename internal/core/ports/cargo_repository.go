// Package ports defines the contracts between the assignment core and its
// collaborators: durable storage for loads and drivers, and the change feed.
package ports

import (
	"context"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
)

// CargoRepository is the cargo pool. Claim is the only way a load leaves
// Available; every later transition goes through UpdateIfStatus.
type CargoRepository interface {
	// Add persists a newly ingested load.
	Add(ctx context.Context, c *cargo.Cargo) error

	// Get returns the load or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*cargo.Cargo, error)

	// GetAllAvailable returns a snapshot of the Available loads ordered by
	// pickup time, then by ingestion time.
	GetAllAvailable(ctx context.Context) ([]*cargo.Cargo, error)

	// GetActiveForDriver returns the driver's Assigned or InTransit loads.
	// More than one entry means the store is inconsistent.
	GetActiveForDriver(ctx context.Context, driverID kernel.UUID) ([]*cargo.Cargo, error)

	// Claim atomically moves the load from Available to Assigned for driverID.
	// It returns false, without error, when the load was no longer Available.
	Claim(ctx context.Context, cargoID, driverID kernel.UUID) (bool, error)

	// UpdateIfStatus writes c only if the stored status still equals expected.
	// It returns false when another writer got there first.
	UpdateIfStatus(ctx context.Context, c *cargo.Cargo, expected cargo.Status) (bool, error)
}
