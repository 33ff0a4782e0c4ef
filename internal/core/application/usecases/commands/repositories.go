// Package commands contains the operations that change drivers and cargo
// loads. Every handler validates its command, opens a unit of work, applies
// the domain transition and commits; any error rolls the transaction back.
package commands

import (
	"context"

	"freight/internal/core/ports"
)

// Unit of Work interfaces for command handlers. Handlers depend on the
// narrowest one that covers the aggregates they touch.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	CargoRepoFactory interface {
		CargoRepository() ports.CargoRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// CargoUoW is used by ingestion, which only touches the pool.
	CargoUoW interface {
		TxManager
		CargoRepoFactory
	}

	CargoUoWFactory interface {
		Create() CargoUoW
	}

	// DriverUoW is used by commands that only touch the driver's own row.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// UoW spans both aggregates. The assignment lifecycle needs it because a
	// load and its driver must change together or not at all.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   d, err := uow.DriverRepository().GetForUpdate(ctx, driverID)
	//   ok, err := uow.CargoRepository().Claim(ctx, cargoID, driverID)
	//   // ...
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		CargoRepoFactory
		DriverRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
