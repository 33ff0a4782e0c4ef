package queries

import (
	"context"
	"database/sql"
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetDriverProfileQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverProfileQueryHandler(db *gorm.DB) GetDriverProfileQueryHandler {
	return GetDriverProfileQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for an unregistered driver.
func (h GetDriverProfileQueryHandler) Handle(
	ctx context.Context,
	query GetDriverProfileQuery,
) (DriverReadModel, error) {
	if err := query.Validate(); err != nil {
		return DriverReadModel{}, err
	}

	return readDriver(ctx, h.db, query.DriverID())
}

func readDriver(ctx context.Context, db *gorm.DB, driverID kernel.UUID) (DriverReadModel, error) {
	row := db.WithContext(ctx).Raw(`
		SELECT `+driverColumns+`
		FROM drivers
		WHERE id = ?
	`, driverID.Bytes()).Row()

	m, err := scanDriver(row)
	if errors.Is(err, sql.ErrNoRows) {
		return DriverReadModel{}, errs.NewObjectNotFoundError("driverID", driverID)
	}
	if err != nil {
		return DriverReadModel{}, errs.NewTransientError("read driver", err)
	}
	return m, nil
}
