package driverrepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements ports.DriverRepository.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a newly onboarded driver. An id that is already registered
// yields a ConflictError.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("driver", aggregate.ID().String(), err)
		}
		return errs.NewTransientError("add driver", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate runs SELECT ... FOR UPDATE. Outside a transaction the lock is
// released as soon as the statement ends.
func (r *GormDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormDriverRepository) get(db *gorm.DB, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, errs.NewTransientError("get driver", err)
	}

	return toDomain(dto)
}

// Update writes status and active delivery. Totals are owned by
// RecordDelivery and never overwritten here.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":          dto.Status,
			"active_cargo_id": dto.ActiveCargoID,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return errs.NewTransientError("update driver", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// RecordDelivery inserts the ledger entry for cargoID and, only if that insert
// took effect, increments the driver's counters in the same statement batch.
// Retried or duplicated calls find the entry and leave the totals alone.
func (r *GormDriverRepository) RecordDelivery(
	ctx context.Context,
	driverID, cargoID kernel.UUID,
	fare kernel.Money,
) (bool, error) {
	if err := errors.Join(driverID.Validate(), cargoID.Validate(), fare.Validate()); err != nil {
		return false, err
	}

	db := r.db.WithContext(ctx)

	entry := LedgerEntryDTO{
		CargoID:  cargoID.Bytes(),
		DriverID: driverID.Bytes(),
		Fare:     fare.Amount(),
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if result.Error != nil {
		return false, errs.NewTransientError("record delivery", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	var dto DriverDTO
	result = db.
		Model(&dto).
		Clauses(clause.Returning{}).
		Where("id = ?", driverID.Bytes()).
		Updates(map[string]any{
			"total_deliveries": gorm.Expr("total_deliveries + 1"),
			"total_earnings":   gorm.Expr("total_earnings + ?", fare.Amount()),
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return false, errs.NewTransientError("increment driver totals", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, errs.NewObjectNotFoundError("driver", driverID.String())
	}

	updated, err := toDomain(dto)
	if err != nil {
		return false, err
	}

	r.tracker.TrackAggregate(updated.ID(), updated)
	return true, nil
}
