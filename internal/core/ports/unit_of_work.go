package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories it hands out
// are bound to the transaction started by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the transaction and announces the touched aggregates on
	// the change feed.
	Commit(ctx context.Context) error

	// Rollback is a no-op once Commit succeeded.
	Rollback(ctx context.Context) error

	CargoRepository() CargoRepository
	DriverRepository() DriverRepository
}
