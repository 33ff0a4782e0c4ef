package queries

import (
	"context"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetActiveDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveDeliveryQueryHandler(db *gorm.DB) GetActiveDeliveryQueryHandler {
	return GetActiveDeliveryQueryHandler{db: db}
}

// Handle returns the driver's Assigned or InTransit load, or nil when the
// driver holds none. Two active loads for one driver is reported as an
// InvalidStateError; the schema's unique index should make that impossible.
func (h GetActiveDeliveryQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveryQuery,
) (*CargoReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+cargoColumns+`
		FROM cargos
		WHERE driver_id = ? AND status IN (?, ?)
		LIMIT 2
	`, query.DriverID().Bytes(), cargo.Assigned.String(), cargo.InTransit.String()).Rows()
	if err != nil {
		return nil, errs.NewTransientError("read active delivery", err)
	}
	defer rows.Close()

	active := make([]CargoReadModel, 0, 1)
	for rows.Next() {
		m, scanErr := scanCargo(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		active = append(active, m)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewTransientError("read active delivery", err)
	}

	switch len(active) {
	case 0:
		return nil, nil
	case 1:
		return &active[0], nil
	default:
		return nil, errs.NewInvalidStateError("active deliveries of "+query.DriverID().String(), len(active))
	}
}
