package cargorepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCargoRepository implements ports.CargoRepository. Every status change
// is a conditional UPDATE on the current status, so concurrent writers never
// overwrite each other.
type GormCargoRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormCargoRepository(db *gorm.DB, tracker aggregateTracker) *GormCargoRepository {
	return &GormCargoRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCargoRepository) Add(ctx context.Context, aggregate *cargo.Cargo) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("cargo", aggregate.ID().String(), err)
		}
		return errs.NewTransientError("add cargo", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCargoRepository) Get(ctx context.Context, id kernel.UUID) (*cargo.Cargo, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CargoDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cargo", id.String())
		}
		return nil, errs.NewTransientError("get cargo", err)
	}

	return toDomain(dto)
}

func (r *GormCargoRepository) GetAllAvailable(ctx context.Context) ([]*cargo.Cargo, error) {
	var dtos []CargoDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", cargo.Available.String()).
		Order("pickup_at, created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewTransientError("get available cargos", err)
	}

	return toDomainList(dtos)
}

func (r *GormCargoRepository) GetActiveForDriver(ctx context.Context, driverID kernel.UUID) ([]*cargo.Cargo, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []CargoDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(),
			[]string{cargo.Assigned.String(), cargo.InTransit.String()}).
		Order("updated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewTransientError("get active cargos", err)
	}

	return toDomainList(dtos)
}

// Claim issues
//
//	UPDATE cargos SET status = 'assigned', driver_id = $driver
//	WHERE id = $cargo AND status = 'available' RETURNING *
//
// Exactly one of any number of concurrent claims on a load affects a row.
func (r *GormCargoRepository) Claim(ctx context.Context, cargoID, driverID kernel.UUID) (bool, error) {
	if err := errors.Join(cargoID.Validate(), driverID.Validate()); err != nil {
		return false, err
	}

	var dto CargoDTO
	result := r.db.WithContext(ctx).
		Model(&dto).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", cargoID.Bytes(), cargo.Available.String()).
		Updates(map[string]any{
			"status":     cargo.Assigned.String(),
			"driver_id":  driverID.Bytes(),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, errs.NewTransientError("claim cargo", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	claimed, err := toDomain(dto)
	if err != nil {
		return false, err
	}

	r.tracker.TrackAggregate(claimed.ID(), claimed)
	return true, nil
}

// UpdateIfStatus writes the lifecycle fields of aggregate when the stored
// status still equals expected.
func (r *GormCargoRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *cargo.Cargo,
	expected cargo.Status,
) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CargoDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(map[string]any{
			"status":       dto.Status,
			"driver_id":    dto.DriverID,
			"delivered_at": dto.DeliveredAt,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, errs.NewTransientError("update cargo", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return true, nil
}
