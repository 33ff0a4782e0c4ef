// Package postgres implements the unit of work over GORM. Repositories handed
// out by a unit of work are bound to its transaction and report every
// aggregate they write; once the transaction commits, those aggregates are
// announced on the change feed so open driver sessions re-pull.
//
// Usage:
//
//	factory := postgres.NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	ok, err := uow.CargoRepository().Claim(ctx, cargoID, driverID)
//	...
//	return uow.Commit(ctx)
package postgres

import (
	"context"
	"log/slog"

	"freight/internal/adapters/out/postgres/cargorepo"
	"freight/internal/adapters/out/postgres/driverrepo"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory hands out a fresh unit of work per command.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.ChangePublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates the factory. publisher may be nil, in which
// case commits are not announced.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.ChangePublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork is not safe for concurrent use; each goroutine creates its own.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.ChangePublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. A second call on the same instance is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.NewTransientError("begin transaction", tx.Error)
	}
	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit commits the transaction and then publishes one change event per
// tracked aggregate. Publishing failures are logged and never undo the commit;
// sessions also refresh on the periodic pool tick.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return errs.NewTransientError("commit transaction", err)
	}

	uow.publish(ctx)
	return nil
}

// Rollback discards the transaction. After Commit it does nothing, so
// handlers can defer it unconditionally.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) CargoRepository() ports.CargoRepository {
	return cargorepo.NewGormCargoRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

// TrackAggregate is called by repositories for every aggregate they write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	events := changeEvents(uow.trackedAggregates)
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.publisher == nil || len(events) == 0 {
		return
	}

	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.WarnContext(ctx, "failed to publish changes",
			"events", len(events),
			"error", err,
		)
	}
}

// changeEvents maps tracked aggregates to change events, keeping the first
// occurrence of each.
func changeEvents(tracked []trackedAggregate) []ports.ChangeEvent {
	seen := make(map[ports.ChangeEvent]struct{}, len(tracked))
	events := make([]ports.ChangeEvent, 0, len(tracked))

	for _, t := range tracked {
		var kind ports.ChangeKind
		switch t.Aggregate.(type) {
		case *cargo.Cargo:
			kind = ports.PoolChanged
		case *driver.Driver:
			kind = ports.DriverChanged
		default:
			continue
		}

		e := ports.ChangeEvent{Kind: kind, EntityID: t.ID}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		events = append(events, e)
	}
	return events
}
