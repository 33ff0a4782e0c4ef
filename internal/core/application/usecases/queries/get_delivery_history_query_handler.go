package queries

import (
	"context"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetDeliveryHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryHistoryQueryHandler(db *gorm.DB) GetDeliveryHistoryQueryHandler {
	return GetDeliveryHistoryQueryHandler{db: db}
}

func (h GetDeliveryHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryHistoryQuery,
) ([]CargoReadModel, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+cargoColumns+`
		FROM cargos
		WHERE driver_id = ? AND status = ?
		ORDER BY delivered_at DESC, id
		LIMIT ?
	`, query.DriverID().Bytes(), cargo.Completed.String(), query.Limit()).Rows()
	if err != nil {
		return nil, errs.NewTransientError("read delivery history", err)
	}
	defer rows.Close()

	history := make([]CargoReadModel, 0)
	for rows.Next() {
		m, scanErr := scanCargo(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		history = append(history, m)
	}
	if err = rows.Err(); err != nil {
		return nil, errs.NewTransientError("read delivery history", err)
	}

	return history, nil
}
